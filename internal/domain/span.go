package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Profile tracks where a request spent its time as an ordered list of
// spans. It is attached to the request context by the API layer and
// returned alongside results.
type Profile struct {
	Spans   []*Span `json:"spans"`
	startTs time.Time
	TotalMs *int64 `json:"totalMs"`
}

type Span struct {
	Name    string `json:"name"`
	startTs time.Time
	Elapsed *int64 `json:"elapsed"`
}

const ContextProfileKey = "requestProfile"

func NewProfile() (*Profile, func()) {
	p := &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}
	return p, p.End
}

func GetProfile(ctx context.Context) *Profile {
	if p, ok := ctx.Value(ContextProfileKey).(*Profile); ok {
		return p
	}
	// callers that never attached a profile still get working spans
	p, _ := NewProfile()
	return p
}

func (p *Profile) End() {
	if p.TotalMs == nil {
		t := time.Since(p.startTs).Milliseconds()
		p.TotalMs = &t
	}
}

// StartNewSpan ends the previous span and begins a new one. Not thread
// safe - the request model is single threaded.
func (p *Profile) StartNewSpan(name string) *Span {
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	s := &Span{
		Name:    name,
		startTs: time.Now(),
	}
	p.Spans = append(p.Spans, s)
	return s
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
}

func (p *Profile) ToJsonBytes() ([]byte, error) {
	p.End()
	return json.Marshal(p)
}
