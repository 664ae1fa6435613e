package query_test

import (
	"fmt"

	"github.com/traceq/traceq/behavior"
	"github.com/traceq/traceq/query"
)

// ExampleParse turns a textual query into a behavior tree.
func ExampleParse() {
	node, err := query.Parse(
		"Anna and Bob run towards each other for at least 10 seconds, then Bob walks away from Anna")
	if err != nil {
		fmt.Println("parse:", err)

		return
	}

	seq := node.(*behavior.Sequential)
	fmt.Printf("%d chronological stages over variables %v\n",
		len(seq.Children()), behavior.LeafVariables(seq))
	// Output:
	// 2 chronological stages over variables [Anna Bob]
}
