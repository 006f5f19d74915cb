// Command inspect prints the header fields and tree structure of a
// tinytable database file.
package main

import (
	"fmt"
	"os"

	"tinytable/btree"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.db>\n", os.Args[0])
		os.Exit(1)
	}

	table, err := btree.Open(os.Args[1], 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer table.Close()

	fmt.Printf("file: %s\n", os.Args[1])
	fmt.Printf("root page: %d\n", table.RootPage())
	fmt.Printf("rows: %d\n\n", table.RowCount())
	if err := table.Dump(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
