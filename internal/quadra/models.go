package quadra

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	geojson "github.com/paulmach/orb/geojson"
)

// Reserved property keys are owned by the application and cannot be set or
// removed through the free-form property bag.
const (
	KeyID     = "id"
	KeyNome   = "nome"
	KeyStatus = "status"
)

var ErrReservedKey = errors.New("quadra: property key is reserved")

func IsReservedKey(key string) bool {
	return key == KeyID || key == KeyNome || key == KeyStatus
}

// Properties is a JSON object that remembers insertion order, so the fields
// a user typed into the editor come back in the same order they were entered.
type Properties struct {
	keys   []string
	values map[string]any
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]any)}
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

func (p *Properties) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Set stores a value under key, appending the key on first use. Reserved
// keys are refused so callers cannot smuggle id, nome or status changes
// through the bag.
func (p *Properties) Set(key string, value any) error {
	if IsReservedKey(key) {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return nil
}

func (p *Properties) Delete(key string) error {
	if IsReservedKey(key) {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}
	if p == nil || p.values == nil {
		return nil
	}
	if _, ok := p.values[key]; !ok {
		return nil
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Clone returns an independent copy. Values are shared, which is fine for
// the JSON scalar types that actually end up in the bag.
func (p *Properties) Clone() *Properties {
	out := NewProperties()
	if p == nil {
		return out
	}
	out.keys = make([]string, len(p.keys))
	copy(out.keys, p.keys)
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON walks the token stream instead of decoding into a map, so
// key order survives the round trip. Reserved keys are dropped here; the
// Feature decoder handles them separately.
func (p *Properties) UnmarshalJSON(data []byte) error {
	*p = *NewProperties()

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("quadra: properties must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if IsReservedKey(key) {
			continue
		}
		if err := p.Set(key, value); err != nil {
			return err
		}
	}
	_, err = dec.Token() // closing brace
	return err
}

// Feature is one block polygon on the map: identity, display name, work
// status, a free-form property bag and the geometry itself.
type Feature struct {
	ID       string
	Nome     string
	Status   Status
	Props    *Properties
	Geometry orb.Geometry
}

func (f *Feature) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"Feature","properties":{`)

	idb, _ := json.Marshal(f.ID)
	nomeb, _ := json.Marshal(f.Nome)
	statusb, _ := json.Marshal(string(f.Status))
	fmt.Fprintf(&buf, `"id":%s,"nome":%s,"status":%s`, idb, nomeb, statusb)

	for _, k := range f.Props.Keys() {
		v, _ := f.Props.Get(k)
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteString(`},"geometry":`)

	gb, err := geojson.NewGeometry(f.Geometry).MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(gb)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *Feature) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type       string            `json:"type"`
		Properties json.RawMessage   `json:"properties"`
		Geometry   *geojson.Geometry `json:"geometry"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Geometry == nil {
		return fmt.Errorf("quadra: feature has no geometry")
	}

	// Reserved keys first, out of the same object. Decoded as any because
	// raw datasets sometimes carry numeric ids.
	var reserved struct {
		ID     any `json:"id"`
		Nome   any `json:"nome"`
		Status any `json:"status"`
	}
	if len(raw.Properties) > 0 {
		if err := json.Unmarshal(raw.Properties, &reserved); err != nil {
			return err
		}
	}

	props := NewProperties()
	if len(raw.Properties) > 0 {
		if err := props.UnmarshalJSON(raw.Properties); err != nil {
			return err
		}
	}

	f.ID, _ = stringValue(reserved.ID)
	f.Nome, _ = stringValue(reserved.Nome)
	statusStr, _ := stringValue(reserved.Status)
	f.Status = NormalizeStatus(statusStr)
	f.Props = props
	f.Geometry = raw.Geometry.Geometry()
	return nil
}

// Clone returns a copy safe to hand out to handlers.
func (f *Feature) Clone() *Feature {
	return &Feature{
		ID:       f.ID,
		Nome:     f.Nome,
		Status:   f.Status,
		Props:    f.Props.Clone(),
		Geometry: orb.Clone(f.Geometry),
	}
}
