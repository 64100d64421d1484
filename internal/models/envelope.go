package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the canonical shape of a backend response. Endpoints that answer
// with a bare resource are normalised into it by DecodeEnvelope.
type Envelope[T any] struct {
	Data       T      `json:"data"`
	Message    string `json:"message,omitempty"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
}

var envelopeMarkers = []string{"success", "message", "statusCode"}

func isEnvelope(fields map[string]json.RawMessage) bool {
	if _, ok := fields["data"]; !ok {
		return false
	}
	for _, marker := range envelopeMarkers {
		if _, ok := fields[marker]; ok {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// DecodeEnvelope reads a response body into the canonical envelope. A JSON object
// carrying data next to one of success, message or statusCode is an envelope,
// anything else is taken as the payload itself.
func DecodeEnvelope[T any](body []byte) (Envelope[T], error) {
	trimmed := bytes.TrimSpace(body)
	output := Envelope[T]{Success: true}
	if len(trimmed) == 0 {
		return output, nil
	}
	if trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		err := json.Unmarshal(trimmed, &fields)
		if err != nil {
			return Envelope[T]{}, fmt.Errorf("cannot decode response body: %w", err)
		}
		if isEnvelope(fields) {
			return decodeEnvelopeFields[T](fields)
		}
	}
	err := json.Unmarshal(trimmed, &output.Data)
	if err != nil {
		return Envelope[T]{}, fmt.Errorf("cannot decode response body: %w", err)
	}
	return output, nil
}

func decodeEnvelopeFields[T any](fields map[string]json.RawMessage) (Envelope[T], error) {
	output := Envelope[T]{Success: true}
	if raw := fields["data"]; !isNull(raw) {
		if err := json.Unmarshal(raw, &output.Data); err != nil {
			return Envelope[T]{}, fmt.Errorf("cannot decode envelope data: %w", err)
		}
	}
	if raw, ok := fields["success"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &output.Success); err != nil {
			return Envelope[T]{}, fmt.Errorf("cannot decode envelope success flag: %w", err)
		}
	}
	if raw, ok := fields["message"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &output.Message); err != nil {
			return Envelope[T]{}, fmt.Errorf("cannot decode envelope message: %w", err)
		}
	}
	if raw, ok := fields["statusCode"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &output.StatusCode); err != nil {
			return Envelope[T]{}, fmt.Errorf("cannot decode envelope status code: %w", err)
		}
	}
	return output, nil
}

// Page is one page of a listing. The list arrives as data or items, possibly
// nested once more inside data, or as a bare array.
type Page[T any] struct {
	Items       []T  `json:"items"`
	PageNumber  int  `json:"pageNumber"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type pageFields struct {
	Data        json.RawMessage `json:"data"`
	Items       json.RawMessage `json:"items"`
	PageNumber  int             `json:"pageNumber"`
	PageSize    int             `json:"pageSize"`
	TotalCount  int             `json:"totalCount"`
	TotalPages  int             `json:"totalPages"`
	HasNext     bool            `json:"hasNext"`
	HasPrevious bool            `json:"hasPrevious"`
}

func (p *Page[T]) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	*p = Page[T]{Items: []T{}}
	if isNull(trimmed) {
		return nil
	}
	if trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &p.Items)
		if err != nil {
			return err
		}
		p.TotalCount = len(p.Items)
		return nil
	}
	var fields pageFields
	err := json.Unmarshal(trimmed, &fields)
	if err != nil {
		return err
	}
	list := fields.Items
	if isNull(list) {
		list = fields.Data
	}
	if !isNull(list) {
		list = bytes.TrimSpace(list)
		if list[0] == '{' {
			// one more level of nesting, the outer metadata is kept only if the inner one is empty
			var inner Page[T]
			err = json.Unmarshal(list, &inner)
			if err != nil {
				return err
			}
			*p = inner
			if p.TotalCount == 0 && fields.TotalCount != 0 {
				p.copyMetadata(fields)
			}
			return nil
		}
		err = json.Unmarshal(list, &p.Items)
		if err != nil {
			return err
		}
		if p.Items == nil {
			p.Items = []T{}
		}
	}
	p.copyMetadata(fields)
	return nil
}

func (p *Page[T]) copyMetadata(fields pageFields) {
	p.PageNumber = fields.PageNumber
	p.PageSize = fields.PageSize
	p.TotalCount = fields.TotalCount
	p.TotalPages = fields.TotalPages
	p.HasNext = fields.HasNext
	p.HasPrevious = fields.HasPrevious
}
