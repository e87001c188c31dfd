package lookml

import (
	"fmt"
	"strings"
)

// Serialize renders a full project into file contents keyed by file
// name: one <model>.view.lkml per view and one <model>.explore.lkml per
// explore.
func Serialize(p *Project) map[string]string {
	files := make(map[string]string, len(p.Views)+len(p.Explores))
	for _, v := range p.Views {
		files[v.Name+".view.lkml"] = SerializeView(v)
	}
	for _, e := range p.Explores {
		files[e.Name+".explore.lkml"] = SerializeExplore(e)
	}
	return files
}

// SerializeView renders one view block.
func SerializeView(v *View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "view: %s {\n", v.Name)
	fmt.Fprintf(&b, "  sql_table_name: %s ;;\n", v.SQLTableName)
	if v.Description != "" {
		fmt.Fprintf(&b, "  # %s\n", v.Description)
	}

	for _, d := range v.Dimensions {
		b.WriteString("\n")
		writeDimension(&b, "dimension", d)
	}
	for _, d := range v.DimensionGroups {
		b.WriteString("\n")
		writeDimension(&b, "dimension_group", d)
	}
	for _, m := range v.Measures {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  measure: %s {\n", m.Name)
		fmt.Fprintf(&b, "    label: %q\n", m.Label)
		if m.Description != "" {
			fmt.Fprintf(&b, "    description: %q\n", m.Description)
		}
		fmt.Fprintf(&b, "    type: %s\n", m.Type)
		if m.SQL != "" {
			fmt.Fprintf(&b, "    sql: %s ;;\n", m.SQL)
		}
		b.WriteString("  }\n")
	}

	b.WriteString("}\n")
	return b.String()
}

func writeDimension(b *strings.Builder, block string, d DimensionField) {
	fmt.Fprintf(b, "  %s: %s {\n", block, d.Name)
	fmt.Fprintf(b, "    label: %q\n", d.Label)
	if d.Description != "" {
		fmt.Fprintf(b, "    description: %q\n", d.Description)
	}
	fmt.Fprintf(b, "    type: %s\n", d.Type)
	if len(d.Timeframes) > 0 {
		fmt.Fprintf(b, "    timeframes: [%s]\n", strings.Join(d.Timeframes, ", "))
	}
	if d.PrimaryKey {
		fmt.Fprintf(b, "    primary_key: yes\n")
	}
	if d.Hidden {
		fmt.Fprintf(b, "    hidden: yes\n")
	}
	fmt.Fprintf(b, "    sql: %s ;;\n", d.SQL)
	b.WriteString("  }\n")
}

// SerializeExplore renders one explore block.
func SerializeExplore(e *Explore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "explore: %s {\n", e.Name)
	fmt.Fprintf(&b, "  label: %q\n", e.Label)
	if e.Description != "" {
		fmt.Fprintf(&b, "  description: %q\n", e.Description)
	}
	for _, j := range e.Joins {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  join: %s {\n", j.View)
		fmt.Fprintf(&b, "    type: %s\n", j.Type)
		fmt.Fprintf(&b, "    relationship: %s\n", j.Relationship)
		fmt.Fprintf(&b, "    sql_on: %s ;;\n", j.SQLOn)
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
	return b.String()
}
