// Command matchkit-smoketest exercises the full matching pipeline end to
// end against a tiny in-memory record set, the way cmd/storetest exercises
// the teacher's store implementations: no test framework, just
// fmt.Println/log.Fatalf checkpoints.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/kittclouds/matchkit/classifier"
	"github.com/kittclouds/matchkit/feature"
	"github.com/kittclouds/matchkit/pipeline"
	"github.com/kittclouds/matchkit/predicate"
	"github.com/kittclouds/matchkit/record"
	"github.com/kittclouds/matchkit/schema"
)

func main() {
	fmt.Println("Testing data model construction...")
	dm := testDataModel()

	fmt.Println("\nTesting classifier training...")
	model := testClassifier(dm)

	fmt.Println("\nTesting pipeline partition...")
	testPartition(dm, model)

	fmt.Println("\n✅ All smoke tests passed!")
}

func testDataModel() *schema.DataModel {
	dm, err := schema.NewDataModel([]schema.FieldDef{
		{Name: "name", Kind: schema.KindString, HasMissing: true},
		{Name: "city", Kind: schema.KindExact},
	})
	if err != nil {
		log.Fatalf("NewDataModel failed: %v", err)
	}
	if dm.FeatureCount() == 0 {
		log.Fatal("FeatureCount returned 0")
	}
	fmt.Println("  ✓ NewDataModel works")
	return dm
}

func testClassifier(dm *schema.DataModel) *classifier.Model {
	builder := feature.NewBuilder(dm, nil, nil)

	records := map[record.ID]record.Record{
		"1": {"name": record.String("acme corporation"), "city": record.String("austin")},
		"2": {"name": record.String("acme corporation"), "city": record.String("austin")},
		"3": {"name": record.String("wholly different co"), "city": record.String("reno")},
		"4": {"name": record.String("wholly different co"), "city": record.String("reno")},
	}

	pairs := []record.Pair{
		record.NewPair("1", "2"),
		record.NewPair("3", "4"),
		record.NewPair("1", "3"),
		record.NewPair("2", "4"),
	}
	x, err := builder.Build(pairs, records)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}
	y := []int{1, 1, 0, 0}

	model, err := classifier.Train(x, y)
	if err != nil {
		log.Fatalf("Train failed: %v", err)
	}
	fmt.Println("  ✓ classifier.Train works")
	return model
}

func testPartition(dm *schema.DataModel, model *classifier.Model) {
	builder := feature.NewBuilder(dm, nil, nil)
	fp := predicate.NewFingerprinter([]predicate.Compound{
		{Terms: []predicate.Predicate{predicate.FirstWord("name")}},
	})
	ctrl := pipeline.New(builder, model, fp)

	records := map[record.ID]record.Record{
		"1": {"name": record.String("acme corporation"), "city": record.String("austin")},
		"2": {"name": record.String("acme corporation"), "city": record.String("austin")},
		"3": {"name": record.String("wholly different co"), "city": record.String("reno")},
	}

	clusters, err := ctrl.Partition(context.Background(), records, 0.5)
	if err != nil {
		log.Fatalf("Partition failed: %v", err)
	}
	fmt.Printf("  ✓ Partition produced %d cluster(s)\n", len(clusters))
}
