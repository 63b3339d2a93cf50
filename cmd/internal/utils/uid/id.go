// Package uid generates ids for append-only records (audits, movements),
// which are written from many requests and never reuse an auto increment.
package uid

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/log"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets the node id of this process. It must be unique per replica.
// Calling it more than once has no effect.
func Init(machineID int64) {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			log.Fatalf("failed to initialize snowflake node: %v", err)
		}
	})
}

// Generate falls back to node 0 when Init was never called (tests, CLI tools).
func Generate() int64 {
	Init(0)
	return node.Generate().Int64()
}
