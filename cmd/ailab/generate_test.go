package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"ailab/internal/models"
)

func runCLI(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	// Flag variables outlive a single Execute.
	generateList, generatePage, generateCount, generateCategory = "posts", 1, 0, string(models.CategoryAll)
	err := rootCmd.Execute()
	return out.Bytes(), err
}

func TestGenerateMarketPage(t *testing.T) {
	out, err := runCLI(t, "--log-level", "error", "generate", "--list", "market", "--page", "3")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var products []models.Product
	if err := json.Unmarshal(out, &products); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(products) != 8 {
		t.Fatalf("got %d products, want 8", len(products))
	}
	for i, p := range products {
		if want := fmt.Sprintf("auto-p-%d", 300+i); p.ID != want {
			t.Errorf("product %d id = %q, want %q", i, p.ID, want)
		}
	}
}

func TestGeneratePostsIsDeterministic(t *testing.T) {
	first, err := runCLI(t, "--log-level", "error", "generate", "--list", "posts", "--page", "2")
	if err != nil {
		t.Fatal(err)
	}
	second, err := runCLI(t, "--log-level", "error", "generate", "--list", "posts", "--page", "2")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same page should print the same records")
	}

	var posts []models.Post
	if err := json.Unmarshal(first, &posts); err != nil {
		t.Fatal(err)
	}
	if len(posts) != 6 || posts[0].ID != "vault-2-0" {
		t.Errorf("posts = %d, first %q", len(posts), posts[0].ID)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	if _, err := runCLI(t, "--log-level", "error", "generate", "--list", "nope"); err == nil {
		t.Error("unknown list should fail")
	}
	if _, err := runCLI(t, "--log-level", "error", "generate", "--category", "ASTROLOGY"); err == nil {
		t.Error("unknown category should fail")
	}
}
