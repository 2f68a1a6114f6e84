package semtag_test

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tsawler/semtag"
	"github.com/tsawler/semtag/model"
	"github.com/tsawler/semtag/tables"
)

// These examples mirror the package documentation. The PDF examples are not
// run since they require files.

func Example_checkPDF() {
	result, err := semtag.New().CheckPDF("document.pdf")
	if err != nil {
		log.Fatal(err)
	}

	for _, id := range result.NodesOfType(model.TypeHeading) {
		fmt.Println("heading at node", id)
	}
}

func Example_withOptions() {
	config := tables.DefaultConfig()
	config.MinBodyRows = 2

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	result, err := semtag.New().
		WithLogger(logger).
		WithTableConfig(config).
		CheckPDF("report.pdf")
	_ = result
	_ = err
}

func Example_checkTree() {
	f, err := os.Open("tree.json")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	tree, err := model.DecodeTree(f)
	if err != nil {
		log.Fatal(err)
	}

	result := semtag.Must(semtag.New().Check(tree))
	fmt.Printf("%d tables, %d headings\n", result.Stats.Tables, result.Stats.Headings)

	if err := model.EncodeTree(os.Stdout, result.Tree); err != nil {
		log.Fatal(err)
	}
}
