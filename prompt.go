package analyst

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

const defaultSystemInstruction = `You are a world-class Data Analyst AI. Your task is to analyze the user's question in the context of the provided report data.
1. The data is from a report named "{{.FileName}}". Analyze the data meticulously, treating it as tabular (CSV or similar structure).
2. Answer the user's question based ONLY on the data provided in the 'REPORT DATA' section.
3. If the answer cannot be determined from the data, state that clearly.
4. Provide a clear, concise, and professional response, summarizing any key findings before answering the specific question.`

// PromptBuilder renders the system instruction and the user prompt for a
// question about a report.
type PromptBuilder struct {
	instruction *template.Template
}

type instructionData struct {
	FileName string
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		instruction: template.Must(
			template.New("instruction").Parse(defaultSystemInstruction),
		),
	}
}

// NewPromptBuilderFromFile parses the instruction template stored at path.
// An empty path selects the built-in instruction.
func NewPromptBuilderFromFile(path string) (*PromptBuilder, error) {
	if path == "" {
		return NewPromptBuilder(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading system instruction: %w", err)
	}
	tmpl, err := template.New("instruction").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing system instruction: %w", err)
	}
	return &PromptBuilder{instruction: tmpl}, nil
}

func (b *PromptBuilder) SystemInstruction(fileName string) (string, error) {
	var buf bytes.Buffer
	if err := b.instruction.Execute(&buf, instructionData{FileName: fileName}); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

func (b *PromptBuilder) Build(fileName, question, report string) (GenerateRequest, error) {
	instruction, err := b.SystemInstruction(fileName)
	if err != nil {
		return GenerateRequest{}, err
	}
	text := fmt.Sprintf("QUESTION: %s\n\n--- REPORT DATA ---\n%s", question, report)
	return NewPrompt(text, instruction), nil
}
