package sid

import (
	"strconv"
	"sync"

	"github.com/15mga/sigecs/util"
	"github.com/bwmarrin/snowflake"
)

var (
	_Mtx  sync.Mutex
	_Node *snowflake.Node
)

// SetNodeId binds the snowflake node, call it before the first GetId when
// several processes generate ids.
func SetNodeId(id int64) *util.Err {
	node, e := snowflake.NewNode(id)
	if e != nil {
		return util.NewErr(util.EcParamsErr, util.M{
			"node":  id,
			"error": e.Error(),
		})
	}
	_Mtx.Lock()
	_Node = node
	_Mtx.Unlock()
	return nil
}

func node() *snowflake.Node {
	_Mtx.Lock()
	defer _Mtx.Unlock()
	if _Node == nil {
		_Node, _ = snowflake.NewNode(0)
	}
	return _Node
}

func GetId() int64 {
	return node().Generate().Int64()
}

func GetStrId() string {
	return strconv.FormatInt(GetId(), 36)
}
