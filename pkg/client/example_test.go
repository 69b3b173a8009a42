package client_test

import (
	"encoding/json"
	"fmt"

	"github.com/daniacca/rxtrig/pkg/client"
)

func ExampleMoleculeBuilder() {
	req := client.BimolecularRequest{
		A:       client.NewMolecule("A").Build(),
		B:       client.NewMolecule("S").Orient(client.Up).OnWall(3, "membrane").Build(),
		OrientA: client.Up,
		OrientB: client.Up,
	}

	body, _ := json.Marshal(req)
	fmt.Println(string(body))

	// Example: send to a server (commented out for test)
	// c := client.New("http://localhost:8080")
	// resp, err := c.Bimolecular(context.Background(), req)
	// if err != nil {
	// 	log.Fatal(err)
	// }
	// fmt.Println(resp.Reactions)

	// Output:
	// {"a":{"species":"A"},"b":{"species":"S","orient":1,"wall":{"id":3,"class":"membrane"}},"orient_a":1,"orient_b":1}
}
