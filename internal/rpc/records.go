package rpc

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

var ErrMalformedMessage = errors.New("malformed message")

// Record is the wire form of a history record. Timestamp is Unix millis.
type Record struct {
	ID        string
	Content   string
	Direction string
	Kind      string
	Timestamp int64
	Deleted   bool
}

// PublishResult carries presigned URLs for a record image. PutURL is empty
// when the image was already uploaded.
type PublishResult struct {
	Key    string
	PutURL string
	GetURL string
}

const (
	fieldRecords  = "records"
	fieldAccepted = "accepted"
)

// RecordsToStruct encodes recs as {"records": [...]}.
func RecordsToStruct(recs []Record) (*structpb.Struct, error) {
	list := make([]any, 0, len(recs))
	for _, r := range recs {
		list = append(list, map[string]any{
			"id":        r.ID,
			"content":   r.Content,
			"direction": r.Direction,
			"kind":      r.Kind,
			"timestamp": r.Timestamp,
			"deleted":   r.Deleted,
		})
	}
	return structpb.NewStruct(map[string]any{fieldRecords: list})
}

// RecordsFromStruct decodes the output of RecordsToStruct. A missing
// "records" field is an empty list.
func RecordsFromStruct(s *structpb.Struct) ([]Record, error) {
	v, ok := s.GetFields()[fieldRecords]
	if !ok {
		return nil, nil
	}
	lv := v.GetListValue()
	if lv == nil {
		return nil, fmt.Errorf("%w: records is not a list", ErrMalformedMessage)
	}

	recs := make([]Record, 0, len(lv.GetValues()))
	for i, item := range lv.GetValues() {
		st := item.GetStructValue()
		if st == nil {
			return nil, fmt.Errorf("%w: record %d is not an object", ErrMalformedMessage, i)
		}
		f := st.GetFields()
		r := Record{
			ID:        f["id"].GetStringValue(),
			Content:   f["content"].GetStringValue(),
			Direction: f["direction"].GetStringValue(),
			Kind:      f["kind"].GetStringValue(),
			Timestamp: int64(f["timestamp"].GetNumberValue()),
			Deleted:   f["deleted"].GetBoolValue(),
		}
		if r.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrMalformedMessage, i)
		}
		recs = append(recs, r)
	}
	return recs, nil
}

// AcceptedToStruct encodes the ids stored by Push.
func AcceptedToStruct(ids []string) (*structpb.Struct, error) {
	list := make([]any, len(ids))
	for i, id := range ids {
		list[i] = id
	}
	return structpb.NewStruct(map[string]any{fieldAccepted: list})
}

// AcceptedFromStruct decodes the output of AcceptedToStruct.
func AcceptedFromStruct(s *structpb.Struct) []string {
	values := s.GetFields()[fieldAccepted].GetListValue().GetValues()
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id := v.GetStringValue(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// PublishToStruct encodes a PublishResult.
func PublishToStruct(p PublishResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"key":     p.Key,
		"put_url": p.PutURL,
		"get_url": p.GetURL,
	})
}

// PublishFromStruct decodes a PublishResult; get_url is mandatory.
func PublishFromStruct(s *structpb.Struct) (PublishResult, error) {
	f := s.GetFields()
	p := PublishResult{
		Key:    f["key"].GetStringValue(),
		PutURL: f["put_url"].GetStringValue(),
		GetURL: f["get_url"].GetStringValue(),
	}
	if p.GetURL == "" {
		return PublishResult{}, fmt.Errorf("%w: missing get_url", ErrMalformedMessage)
	}
	return p, nil
}
