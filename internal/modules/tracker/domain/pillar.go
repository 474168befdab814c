package domain

import "strings"

type Pillar string

const (
	Body   Pillar = "body"
	Mind   Pillar = "mind"
	Heart  Pillar = "heart"
	Spirit Pillar = "spirit"
	Diet   Pillar = "diet"
)

// Overall is the pillar tag for achievements that span every pillar.
const Overall = "overall"

// Pillars lists the pillars in display order.
var Pillars = []Pillar{Body, Mind, Heart, Spirit, Diet}

func ParsePillar(raw string) (Pillar, bool) {
	p := Pillar(strings.ToLower(strings.TrimSpace(raw)))
	return p, p.Valid()
}

func (p Pillar) Valid() bool {
	switch p {
	case Body, Mind, Heart, Spirit, Diet:
		return true
	default:
		return false
	}
}

func (p Pillar) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}
