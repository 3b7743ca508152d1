package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject — тело профиля не является JSON-объектом (в том числе null).
var ErrNotObject = errors.New("profile: json value is not an object")

// Profile — профиль, как его отдаёт апстрим.
//
// Схема открытая: известные поля разбираются в типизированные поля,
// всё остальное верхнего уровня складывается в Extra без интерпретации
// и возвращается обратно при сериализации.
type Profile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Headline   string   `json:"headline,omitempty"`
	PreviewPic *Picture `json:"preview_pic,omitempty"`
	// Pictures упорядочены; порядок значим для отображения.
	Pictures []Picture `json:"pictures"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownProfileKeys — ключи, которые разбираются в поля структуры.
var knownProfileKeys = map[string]struct{}{
	"id":          {},
	"name":        {},
	"headline":    {},
	"preview_pic": {},
	"pictures":    {},
}

// profileFields — псевдоним без методов, чтобы не уйти в рекурсию json.
type profileFields Profile

// UnmarshalJSON принимает только JSON-объект: null, массив или скаляр
// дают ErrNotObject, а не пустой профиль.
func (p *Profile) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}

	var fields profileFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var extra map[string]json.RawMessage
	for k, v := range raw {
		if _, ok := knownProfileKeys[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage, len(raw))
		}
		extra[k] = v
	}

	*p = Profile(fields)
	p.Extra = extra

	return nil
}

func (p Profile) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(profileFields(p))
	if err != nil {
		return nil, err
	}

	if len(p.Extra) == 0 {
		return known, nil
	}

	out := make(map[string]json.RawMessage, len(p.Extra)+len(knownProfileKeys))
	for k, v := range p.Extra {
		if _, ok := knownProfileKeys[k]; ok {
			continue
		}
		out[k] = v
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, fmt.Errorf("models: profile fields: %w", err)
	}
	for k, v := range fields {
		out[k] = v
	}

	return json.Marshal(out)
}
