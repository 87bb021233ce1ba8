package provider

import (
	"github.com/kvgate/kvgate/lib/store"
	"github.com/kvgate/kvgate/rpc/common"
)

// --------------------------------------------------------------------------
// Operation Handlers
// --------------------------------------------------------------------------
//
// Every handler follows the same shape: resolve the caller's connection,
// issue exactly one logical store command, translate the result into a
// response message. Connections are released before the handler returns.

// withConn resolves the actor's connection, runs fn with it and releases the
// connection afterwards.
func (p *Provider) withConn(actor string, fn func(conn store.IConnection) (*common.Message, error)) (*common.Message, error) {
	conn, err := p.registry.Resolve(actor)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cErr := conn.Close(); cErr != nil {
			logger.Warningf("failed to release connection for actor %s: %v", actor, cErr)
		}
	}()
	return fn(conn)
}

// add increments the counter at the key by the requested delta and returns
// the value after the increment.
func (p *Provider) add(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		value, err := conn.IncrBy(req.Key, req.Delta)
		if err != nil {
			return nil, wrapStoreError(common.OpAdd, err)
		}
		return common.NewAddResponse(value), nil
	})
}

// del removes the key regardless of its type. Deleting an absent key
// succeeds; the response echoes the key either way.
func (p *Provider) del(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		if err := conn.Delete(req.Key); err != nil {
			return nil, wrapStoreError(common.OpDel, err)
		}
		return common.NewDelResponse(req.Key), nil
	})
}

// get reads the scalar value at the key. An absent key is reported via the
// exists flag; a failed read is an error, never a silent miss.
func (p *Provider) get(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		value, found, err := conn.Get(req.Key)
		if err != nil {
			return nil, wrapStoreError(common.OpGet, err)
		}
		return common.NewGetResponse(value, found), nil
	})
}

// set writes the scalar value at the key and echoes the stored value.
func (p *Provider) set(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		if err := conn.Set(req.Key, req.Value); err != nil {
			return nil, wrapStoreError(common.OpSet, err)
		}
		return common.NewSetResponse(req.Value), nil
	})
}

// listClear removes the list at the key. Clearing is whole-key deletion, so
// it delegates to the deletion handler.
func (p *Provider) listClear(actor string, req *common.Message) (*common.Message, error) {
	resp, err := p.del(actor, req)
	if err != nil {
		return nil, err
	}
	resp.Op = common.OpListClear
	return resp, nil
}

// listRange reads the inclusive index range from the list. Negative indices
// address from the tail; an empty selection yields an empty list.
func (p *Provider) listRange(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		values, err := conn.ListRange(req.Key, req.Start, req.Stop)
		if err != nil {
			return nil, wrapStoreError(common.OpListRange, err)
		}
		return common.NewListRangeResponse(values), nil
	})
}

// listPush prepends the value to the list at the key and returns the list
// length after the push.
func (p *Provider) listPush(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		count, err := conn.ListPush(req.Key, req.Value)
		if err != nil {
			return nil, wrapStoreError(common.OpListPush, err)
		}
		return common.NewListResponse(common.OpListPush, count), nil
	})
}

// listDelItem removes every occurrence of the value from the list and
// returns the number of removed elements.
func (p *Provider) listDelItem(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		count, err := conn.ListRemove(req.Key, req.Value)
		if err != nil {
			return nil, wrapStoreError(common.OpListDelItem, err)
		}
		return common.NewListResponse(common.OpListDelItem, count), nil
	})
}

// setAdd inserts the member into the set at the key and returns the member
// count after the insertion. Adding a present member leaves the count
// unchanged.
func (p *Provider) setAdd(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		count, err := conn.SetAdd(req.Key, req.Value)
		if err != nil {
			return nil, wrapStoreError(common.OpSetAdd, err)
		}
		return common.NewSetOperationResponse(common.OpSetAdd, count), nil
	})
}

// setRemove removes the member from the set at the key and returns the
// member count after the removal.
func (p *Provider) setRemove(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		count, err := conn.SetRemove(req.Key, req.Value)
		if err != nil {
			return nil, wrapStoreError(common.OpSetRemove, err)
		}
		return common.NewSetOperationResponse(common.OpSetRemove, count), nil
	})
}

// setUnion returns the deduplicated union of the sets at the given keys.
func (p *Provider) setUnion(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		values, err := conn.SetUnion(req.Keys...)
		if err != nil {
			return nil, wrapStoreError(common.OpSetUnion, err)
		}
		return common.NewSetQueryResponse(common.OpSetUnion, values), nil
	})
}

// setIntersect returns the intersection of the sets at the given keys.
func (p *Provider) setIntersect(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		values, err := conn.SetIntersect(req.Keys...)
		if err != nil {
			return nil, wrapStoreError(common.OpSetIntersect, err)
		}
		return common.NewSetQueryResponse(common.OpSetIntersect, values), nil
	})
}

// setQuery returns all members of the set at the key. An absent key yields
// an empty member list.
func (p *Provider) setQuery(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		values, err := conn.SetMembers(req.Key)
		if err != nil {
			return nil, wrapStoreError(common.OpSetQuery, err)
		}
		return common.NewSetQueryResponse(common.OpSetQuery, values), nil
	})
}

// keyExists reports whether the key is present, regardless of its type.
func (p *Provider) keyExists(actor string, req *common.Message) (*common.Message, error) {
	return p.withConn(actor, func(conn store.IConnection) (*common.Message, error) {
		exists, err := conn.Exists(req.Key)
		if err != nil {
			return nil, wrapStoreError(common.OpKeyExists, err)
		}
		return common.NewKeyExistsResponse(exists), nil
	})
}
