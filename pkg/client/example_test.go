package client_test

import (
	"context"
	"fmt"

	"github.com/tetexact/ssacore/pkg/client"
)

func ExampleModelBuilder() {
	mesh := client.NewMesh()
	tet := mesh.AddTet(1e-18, [4]float64{}, [4]float64{}, [4]int{-1, -1, -1, -1}, [4]int{-1, -1, -1, -1})

	model := client.NewModel("decay-test").
		Species("A", "B").
		Reaction(client.NewReaction("decay").Lhs("A", 1).Rhs("B", 1).Rate(1.0)).
		Mesh(mesh).
		Compartment(client.NewCompartment("cyt").Tets(tet).Reaction("decay"))

	cfg := model.Build()
	fmt.Printf("Model: %s\n", cfg.Name)
	fmt.Printf("Species: %d\n", len(cfg.Species))
	fmt.Printf("Reactions: %d\n", len(cfg.Reactions))
	// Output:
	// Model: decay-test
	// Species: 2
	// Reactions: 1
}

func ExampleClient_Run() {
	ctx := context.Background()
	c := client.New("http://localhost:8080")

	// This would ask a running tetexact server to advance its simulation.
	// Uncomment against a live server to actually send the request:
	// status, err := c.Run(ctx, 1.0)
	// if err != nil {
	// 	log.Fatal(err)
	// }
	// fmt.Println(status.NSteps)

	_ = ctx
	_ = c
}
