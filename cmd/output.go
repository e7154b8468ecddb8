// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pterm/pterm"

	"github.com/xataio/indexschema/internal/json"
	"github.com/xataio/indexschema/pkg/schema"
)

const (
	treeOutput     = "tree"
	jsonOutput     = "json"
	templateOutput = "template"
)

var (
	errUnsupportedOutput = errors.New("unsupported output, must be one of 'tree', 'json' or 'template'")
	errMissingTemplate   = errors.New("template output requires a --template")
)

func renderFields(output, tpl string, results []modelFields) (string, error) {
	switch output {
	case treeOutput:
		return renderTree(results)
	case jsonOutput:
		return renderJSON(results)
	case templateOutput:
		if tpl == "" {
			return "", errMissingTemplate
		}
		return renderTemplate(tpl, results)
	default:
		return "", fmt.Errorf("%w: %s", errUnsupportedOutput, output)
	}
}

func renderJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// renderTemplate executes the template once per model.
func renderTemplate(tpl string, results []modelFields) (string, error) {
	t, err := template.New("fields").Funcs(sprig.TxtFuncMap()).Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	for _, r := range results {
		if err := t.Execute(&buf, r); err != nil {
			return "", fmt.Errorf("executing template for model %s: %w", r.Model, err)
		}
	}
	return buf.String(), nil
}

func renderTree(results []modelFields) (string, error) {
	var b strings.Builder
	for _, r := range results {
		root := pterm.TreeNode{
			Text:     pterm.Bold.Sprint(r.Model),
			Children: fieldNodes(r.Fields),
		}
		tree, err := pterm.DefaultTree.WithRoot(root).Srender()
		if err != nil {
			return "", err
		}
		b.WriteString(tree)
	}
	return b.String(), nil
}

func fieldNodes(fields []schema.Field) []pterm.TreeNode {
	nodes := make([]pterm.TreeNode, 0, len(fields))
	for _, f := range fields {
		nodes = append(nodes, pterm.TreeNode{
			Text:     fieldSummary(f),
			Children: fieldNodes(f.Fields),
		})
	}
	return nodes
}

func fieldSummary(f schema.Field) string {
	attrs := make([]string, 0, 8)
	flag := func(set bool, name string) {
		if set {
			attrs = append(attrs, name)
		}
	}
	flag(f.Key, "key")
	flag(f.Hidden, "hidden")
	if !f.Type.IsComplex() {
		flag(f.Searchable, "searchable")
		flag(f.Filterable, "filterable")
		flag(f.Sortable, "sortable")
		flag(f.Facetable, "facetable")
	}
	if f.AnalyzerName != "" {
		attrs = append(attrs, "analyzer="+f.AnalyzerName)
	}
	if f.IndexAnalyzerName != "" {
		attrs = append(attrs, "indexAnalyzer="+f.IndexAnalyzerName, "searchAnalyzer="+f.SearchAnalyzerName)
	}
	if f.NormalizerName != "" {
		attrs = append(attrs, "normalizer="+f.NormalizerName)
	}
	if len(f.SynonymMapNames) > 0 {
		attrs = append(attrs, "synonymMaps="+strings.Join(f.SynonymMapNames, "|"))
	}

	summary := f.Name + " " + pterm.Gray(f.Type.String())
	if len(attrs) > 0 {
		summary += " [" + strings.Join(attrs, " ") + "]"
	}
	return summary
}
