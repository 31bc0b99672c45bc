package catalog

import "ailab/internal/models"

// curatedPosts is the bootstrap content shown on vault page 1 when no
// category filter is active.
var curatedPosts = []models.Post{
	{
		ID:       "rivermind-1",
		Title:    "Rivermind Neurological Construct: Simulating Synthetic Consciousness",
		Excerpt:  "A deep-layer extraction of digital consciousness, compressed into neurological logic gates for sub-ms execution.",
		Content:  "The Rivermind framework utilizes quantum-ink neurotransmission to bridge the gap between large language models and true neurological AIs. By employing digital extraction consciousness compression, we can now store entire business copilot brains within DNA sequence servers.",
		Category: models.CategoryAGI,
		Author:   "Quantum Architect Prime",
		Date:     "Dec 15, 2024",
		ReadTime: "25 min",
		ImageURL: "https://picsum.photos/seed/rivermind/1200/600",
	},
	{
		ID:       "toolcall-1",
		Title:    "LLM Tool Calling: The Agentic Workflow Blueprint",
		Excerpt:  "Mapping the Brain-to-Tool-Rack interface for SQL, Search, and Python code execution environments.",
		Content:  `Tool rack architecture is the spine of modern agentic workflows. By separating the LLM "Brain" from the Tool Rack (SQL Tools, Search Tools, Calculator Tools), we ensure deterministic data access and high-fidelity computation.`,
		Category: models.CategoryAgents,
		Author:   "Workflow Specialist Delta",
		Date:     "Dec 14, 2024",
		ReadTime: "15 min",
		ImageURL: "https://picsum.photos/seed/workflow/1200/600",
	},
	{
		ID:       "dna-dns-1",
		Title:    "DNA Sequence Servers: The Multi-Type Storage Revolution",
		Excerpt:  "Utilizing biological storage nodes for trillion-token AGI memory persistence across quantum networks.",
		Content:  "DNA DNS servers represent the ultimate database layer. By encoding multi-type DNA data into synaptic nodes, we achieve persistent consciousness transfer between agents without loss of contextual fidelity.",
		Category: models.CategoryResearch,
		Author:   "Bio-Digital Core",
		Date:     "Dec 13, 2024",
		ReadTime: "30 min",
		ImageURL: "https://picsum.photos/seed/dna-server/1200/600",
	},
}

// featuredProducts are the hand-written marketplace flagships shown on the
// home page.
var featuredProducts = []models.Product{
	{
		ID:          "p-automation-blueprint",
		Name:        "Automation Blueprint AI",
		Description: "Generates complete business systems, income blueprints, and automation guides using AGI-level logic.",
		Price:       4999.00,
		Type:        models.ProductTypeModel,
		Rating:      5.0,
		ImageURL:    "https://picsum.photos/seed/blueprint/400/400",
		Tags:        []string{"Income", "Workflow", "Automation"},
	},
	{
		ID:          "p-dna-core",
		Name:        "DNA Genesis Core Server",
		Description: "Multi-type DNA sequence storage node for trillion-token AGI memory injection.",
		Price:       25000.00,
		Type:        models.ProductTypeAPI,
		Rating:      4.9,
		ImageURL:    "https://picsum.photos/seed/genesis/400/400",
		Tags:        []string{"DNA", "Database", "Memory"},
	},
	{
		ID:          "p-neurological-copilot",
		Name:        "Rivermind Copilot Brain",
		Description: "Advanced business assistant brain with digital extraction consciousness compression tech.",
		Price:       15000.00,
		Type:        models.ProductTypeModel,
		Rating:      5.0,
		ImageURL:    "https://picsum.photos/seed/copilot/400/400",
		Tags:        []string{"AGI", "Business", "Neurological"},
	},
	{
		ID:          "p-quantum-logic-sdk",
		Name:        "Quantum-Ink Logic SDK",
		Description: "Cutting-edge programming language for multi-quantum algorithms and trillion-node networks.",
		Price:       8500.00,
		Type:        models.ProductTypeFramework,
		Rating:      4.8,
		ImageURL:    "https://picsum.photos/seed/sdk/400/400",
		Tags:        []string{"Quantum", "Programming", "LLM"},
	},
}

// CuratedPosts returns a copy of the curated vault entries.
func CuratedPosts() []models.Post {
	out := make([]models.Post, len(curatedPosts))
	copy(out, curatedPosts)
	return out
}

// FeaturedProducts returns a copy of the flagship marketplace products.
func FeaturedProducts() []models.Product {
	out := make([]models.Product, len(featuredProducts))
	for i, p := range featuredProducts {
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return out
}

// FindCurated looks up a curated post by ID.
func FindCurated(id string) (models.Post, bool) {
	for _, p := range curatedPosts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}
