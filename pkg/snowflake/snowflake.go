package snowflake

import "github.com/bwmarrin/snowflake"

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// GenCheckoutID 结算快照标识，只做本地在途去重，不参与后端交互
func GenCheckoutID() int64 {
	return node.Generate().Int64()
}

func GenID() int64 {
	return node.Generate().Int64()
}
