package catalog

// Name tables for procedural generation. Every generated field is a modular
// lookup into one of these slices, so reordering or resizing a table changes
// the content of every page.

var postThemes = []string{
	"Extraction", "Compression", "Uplink", "Synthesis", "Mapping",
	"Syncing", "Verification", "Optimization", "Encryption",
}

var postEntities = []string{
	"Cortex", "Synapse", "D-Node", "Q-Gate", "Bio-Server",
	"Aether-Core", "Matrix-Layer", "Helix-Storage",
}

var marketPrefixes = []string{
	"Rivermind", "Quantum", "DNA-Seq", "Automation", "Neurological", "Cortex",
	"Elite", "Consciousness", "Neural-Link", "Synaptic", "Q-Core", "Matrix",
	"Aether", "Helix", "Zenith", "Omega", "Flux", "Nexus",
}

var marketSuffixes = []string{
	"Blueprint", "Brain", "Sync", "Guardian", "Node", "Compiler", "Module",
	"Extraction", "Matrix", "Vault", "Engine", "Processor", "Cluster",
	"Synthesizer", "Gate", "Core",
}

var vaultProductPrefixes = []string{
	"Synaptic", "Neural", "DNA-Node", "Quantum", "Extraction", "Cortex",
}

var vaultProductSuffixes = []string{
	"Asset", "Logic", "Node", "Sync", "Core", "Gate",
}
