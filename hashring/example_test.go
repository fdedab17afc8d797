package hashring_test

import (
	"fmt"

	"github.com/krisalay/hashring/hashring"
)

func ExampleHashRing_SelectNode() {
	r := hashring.New(3, hashring.WithHasher(hashring.Decimal))
	r.AddNodes("2", "4", "6")

	for _, key := range []string{"1", "3", "25", "35"} {
		n, _ := r.SelectNode(key)
		fmt.Println(key, "->", n)
	}
	// Output:
	// 1 -> 2
	// 3 -> 4
	// 25 -> 6
	// 35 -> 2
}
