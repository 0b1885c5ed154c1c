// Command richtext renders a rich-text JSON document to HTML.
//
//	richtext render article.json
//	cat article.json | richtext render --pretty
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
