package program

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("program: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	RegisterFormat(Format{
		Name:       "json",
		Extensions: []string{".json"},
		Unmarshal: func(data []byte, d *Dump) error {
			return json.Unmarshal(data, d)
		},
		Marshal: func(d *Dump) ([]byte, error) {
			return json.MarshalIndent(d, "", "  ")
		},
	})

	RegisterFormat(Format{
		Name:       "toml",
		Extensions: []string{".toml"},
		Unmarshal: func(data []byte, d *Dump) error {
			return toml.Unmarshal(data, d)
		},
		Marshal: func(d *Dump) ([]byte, error) {
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(d); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	RegisterFormat(Format{
		Name:       "yaml",
		Extensions: []string{".yaml", ".yml"},
		Unmarshal: func(data []byte, d *Dump) error {
			return yaml.Unmarshal(data, d)
		},
		Marshal: func(d *Dump) ([]byte, error) {
			return yaml.Marshal(d)
		},
	})

	RegisterFormat(Format{
		Name:       "cbor",
		Extensions: []string{".cbor", ".udonb"},
		Unmarshal: func(data []byte, d *Dump) error {
			return cbor.Unmarshal(data, d)
		},
		Marshal: func(d *Dump) ([]byte, error) {
			return cborEncMode.Marshal(d)
		},
	})
}
