package ai

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// errStopStream is returned from an SSE callback to end reading without
// reporting an error.
var errStopStream = errors.New("stop stream")

// maxSSELine bounds a single SSE line. Provider chunks are small JSON
// objects; the limit only guards against a misbehaving upstream.
const maxSSELine = 1 << 20

// readSSE reads a text/event-stream body and calls fn for every event that
// carries data. Multi-line data fields are joined with newlines. Comments
// and unknown fields are ignored.
func readSSE(r io.Reader, fn func(event, data string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxSSELine)

	var event string
	var data []string

	dispatch := func() error {
		if len(data) == 0 {
			event = ""
			return nil
		}
		err := fn(event, strings.Join(data, "\n"))
		event, data = "", data[:0]
		return err
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if err := dispatch(); err != nil {
				return ignoreStop(err)
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event = value
		case "data":
			data = append(data, value)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return ignoreStop(dispatch())
}

func ignoreStop(err error) error {
	if errors.Is(err, errStopStream) {
		return nil
	}
	return err
}
