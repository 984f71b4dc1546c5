package btree

import (
	"bufio"
	"fmt"
	"html"
	"io"
)

// WriteDOT renders the tree as a Graphviz digraph. Each node is drawn as an
// HTML-like table with one port per child link.
func (bt *BTree[K]) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph BTree {")
	fmt.Fprintln(bw, "  graph [ranksep=0.8, nodesep=0.5, bgcolor=\"#ffffff\", rankdir=TB];")
	fmt.Fprintln(bw, "  node [shape=none, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(bw, "  edge [arrowsize=0.8, color=\"#444444\"];")

	var counter int
	var export func(x *Node[K], depth int) string
	export = func(x *Node[K], depth int) string {
		name := fmt.Sprintf("node%d", counter)
		counter++

		fill := 100 * float64(len(x.keys)) / float64(bt.maxKeys())
		header := "#DAE8FC"
		kind := "INTERNAL"
		if x.leaf {
			header = "#D5E8D4"
			kind = "LEAF"
		}

		label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">`+
			`<TR><TD COLSPAN="%d" BGCOLOR="%s"><B>%s</B> depth %d<BR/><FONT POINT-SIZE="8">Fill: %.1f%%</FONT></TD></TR><TR>`,
			2*len(x.keys)+1, header, kind, depth, fill)
		for i, k := range x.keys {
			label += fmt.Sprintf(`<TD PORT="f%d" BGCOLOR="#E1F5FE"> </TD><TD BGCOLOR="#FFFFFF"><B>%s</B></TD>`,
				i, html.EscapeString(fmt.Sprint(k)))
		}
		label += fmt.Sprintf(`<TD PORT="f%d" BGCOLOR="#E1F5FE"> </TD></TR></TABLE>>`, len(x.keys))
		fmt.Fprintf(bw, "  %s [label=%s];\n", name, label)

		for i, child := range x.children {
			childName := export(child, depth+1)
			fmt.Fprintf(bw, "  %s:f%d -> %s;\n", name, i, childName)
		}
		return name
	}
	export(bt.root, 0)

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
