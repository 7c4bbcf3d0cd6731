package uid

import (
	"fmt"
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates 63-bit ids with a node id derived from the host name.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator whose node number is hashed from the host
// name, so replicas on different hosts do not collide.
func NewSnowflake() (*Snowflake, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("uid: resolve hostname: %w", err)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(host))

	return NewSnowflakeWithNode(int64(h.Sum32() % (1 << snowflake.NodeBits)))
}

// NewSnowflakeWithNode builds a generator for an explicit node number (0-1023).
func NewSnowflakeWithNode(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
