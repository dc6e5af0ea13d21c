package novacanvas

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"
)

const ideationTemplate = `Generate a creative image prompt that builds upon this concept: "%s"

Requirements:
- Create a new, expanded prompt without mentioning or repeating the original concept
- Focus on vivid visual details and artistic elements
- Keep the prompt under 1000 characters
- Do not include any meta-instructions or seed references
- Return only the new prompt text

Response Format:
[Just the new prompt text, nothing else]`

// PromptIdeator turns a random concept from the seeds file into an
// instruction for the Nova Lite model.
type PromptIdeator struct {
	concepts      []string
	randGenerator *rand.Rand
}

type promptSeeds struct {
	Seeds []string `json:"seeds"`
}

func NewPromptIdeator(seedsFile string) (*PromptIdeator, error) {
	data, err := os.ReadFile(seedsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read seeds file: %w", err)
	}
	var seeds promptSeeds
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seeds file: %w", err)
	}
	if len(seeds.Seeds) == 0 {
		return nil, fmt.Errorf("seeds file %s contains no seed concepts", seedsFile)
	}
	return &PromptIdeator{
		concepts:      seeds.Seeds,
		randGenerator: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (p *PromptIdeator) Instruction() string {
	concept := p.concepts[p.randGenerator.Intn(len(p.concepts))]
	return fmt.Sprintf(ideationTemplate, concept)
}
