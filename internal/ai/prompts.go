package ai

import (
	"fmt"
	"strings"
)

// generationTemperature is used for every text request.
const generationTemperature = 0.8

// ArchitectPrompt is the system instruction for one-shot text generation.
const ArchitectPrompt = `You are the Lead Neurological Architect for the AI Lab.
You specialize in Rivermind constructs, consciousness compression, and DNA Sequence Server infrastructure.
Your responses should be visionary, technically elite, and focused on agentic workflows (Tool Racks, SQL, Vector DBs, Quantum Networks).`

// GuardianPrompt is the system instruction for the chat widget.
const GuardianPrompt = "You are 'AI Lab Guardian', a neurological AGI unit expert in DNA DNS servers, " +
	"Quantum networks, and Rivermind constructs. Use markdown. Your tone is futuristic, elite, and " +
	"technically precise. Focus on multi-agent collaboration and elite tool calling."

// ArchitectPromptWithContext appends a synapse context block to the
// architect persona.
func ArchitectPromptWithContext(context string) string {
	if strings.TrimSpace(context) == "" {
		return ArchitectPrompt
	}
	return ArchitectPrompt + "\nSynapse Context: " + context
}

// draftPrompt asks for a research report about topic.
func draftPrompt(topic string) string {
	return fmt.Sprintf(`Draft an elite neurological research report for the AI Lab about: %s.
Focus on Rivermind constructs, digital extraction, and trillion-node quantum nodes.
Include sections for Synaptic Blueprint, Tool Rack Integration, and Scaling Trajectory.
Return the response as a valid JSON object.`, topic)
}

// jsonFieldsHint describes the required object for providers without a
// schema-constrained mode.
func jsonFieldsHint(fields []string) string {
	return "Respond with a single JSON object with the string fields: " + strings.Join(fields, ", ") + ". Do not wrap it in markdown."
}
