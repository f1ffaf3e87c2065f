// Copyright (c) 2026 Querydeck
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"encoding/json"

	"querydeck/cli/internal/bridge/model"
	apperr "querydeck/cli/internal/errors"
)

// DecodeFrame parses one inbound live-channel payload. The frame must be a JSON
// object; its kind is read from "kind", falling back to "type". A frame of an
// unknown kind decodes fine and is left for the caller to ignore.
func DecodeFrame(data []byte) (model.InboundEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return model.InboundEvent{}, apperr.Wrap(apperr.MalformedFrame, "frame is not a JSON object", err)
	}
	if fields == nil {
		return model.InboundEvent{}, apperr.New(apperr.MalformedFrame, "frame is null")
	}

	kind, err := frameKind(fields)
	if err != nil {
		return model.InboundEvent{}, err
	}
	ev := model.InboundEvent{Kind: kind}
	if kind != model.KindQueryExecuted {
		return ev, nil
	}
	if err := json.Unmarshal(data, &ev.QueryExecuted); err != nil {
		return model.InboundEvent{}, apperr.Wrap(apperr.MalformedFrame, "bad query_executed payload", err)
	}
	return ev, nil
}

func frameKind(fields map[string]json.RawMessage) (model.EventKind, error) {
	for _, key := range []string{"kind", "type"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", apperr.Wrap(apperr.MalformedFrame, key+" is not a string", err)
		}
		if s != "" {
			return model.EventKind(s), nil
		}
	}
	return "", nil
}
