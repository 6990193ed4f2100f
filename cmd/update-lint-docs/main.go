package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/rules"
)

const (
	readmeFile    = "README.md"
	referenceFile = "docs/rules.md"
	jsonFile      = "docs/rules.json"

	startMarker = "<!-- START LINT RULES -->"
	endMarker   = "<!-- END LINT RULES -->"
)

func main() {
	if err := updateLintDocs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func updateLintDocs() error {
	fmt.Println("🔄 Updating rule documentation...")

	docGen := linter.NewDocGenerator(rules.NewRegistry())

	if err := writeReference(docGen); err != nil {
		return fmt.Errorf("failed to write rule reference: %w", err)
	}

	if err := updateReadme(docGen); err != nil {
		return fmt.Errorf("failed to update README: %w", err)
	}

	fmt.Println("🎉 Rule docs updated successfully!")
	return nil
}

func writeReference(docGen *linter.DocGenerator) error {
	if err := os.MkdirAll(filepath.Dir(referenceFile), 0o755); err != nil {
		return err
	}

	var md bytes.Buffer
	if err := docGen.WriteMarkdown(&md); err != nil {
		return err
	}
	if err := os.WriteFile(referenceFile, md.Bytes(), 0600); err != nil {
		return err
	}
	fmt.Printf("✅ Wrote %s\n", referenceFile)

	var js bytes.Buffer
	if err := docGen.WriteJSON(&js); err != nil {
		return err
	}
	if err := os.WriteFile(jsonFile, js.Bytes(), 0600); err != nil {
		return err
	}
	fmt.Printf("✅ Wrote %s\n", jsonFile)
	return nil
}

func updateReadme(docGen *linter.DocGenerator) error {
	if _, err := os.Stat(readmeFile); os.IsNotExist(err) {
		fmt.Printf("⚠️  No README file found: %s\n", readmeFile)
		return nil
	}

	if err := updateReadmeFile(readmeFile, generateRulesTable(docGen)); err != nil {
		return err
	}
	fmt.Printf("✅ Updated %s\n", readmeFile)
	return nil
}

func generateRulesTable(docGen *linter.DocGenerator) string {
	docs := docGen.GenerateAllRuleDocs()
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})

	var content strings.Builder
	content.WriteString("| Rule | Kind | Opt-in | Correctable | Summary |\n")
	content.WriteString("|------|------|--------|-------------|---------|\n")
	for _, doc := range docs {
		summary := strings.ReplaceAll(doc.Summary, "|", "\\|")
		summary = strings.ReplaceAll(summary, "\n", " ")
		fmt.Fprintf(&content, "| [`%s`](%s#%s) | %s | %s | %s | %s |\n",
			doc.ID, referenceFile, doc.ID, doc.Kind, yesNo(doc.OptIn), yesNo(doc.Correctable), summary)
	}
	return content.String()
}

func updateReadmeFile(filename, newContent string) error {
	data, err := os.ReadFile(filename) //nolint:gosec
	if err != nil {
		return err
	}
	content := string(data)

	startIdx := strings.Index(content, startMarker)
	endIdx := strings.Index(content, endMarker)
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return fmt.Errorf("could not find lint rules markers in %s", filename)
	}

	before := content[:startIdx+len(startMarker)]
	after := content[endIdx:]

	return os.WriteFile(filename, []byte(before+"\n\n"+newContent+"\n"+after), 0600)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
