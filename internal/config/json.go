package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/andrewyatz/ensembl-registry/internal/regerr"
	"github.com/andrewyatz/ensembl-registry/internal/structloader"
)

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// DecodeJSON implements the JSON half of ConfigLoader (spec.md §4.E /
// §6 "Config JSON"): {adaptors:[...], aliases:{species:[alias,...]}}.
// Trailing commas and whole-line `#` comments are stripped before
// strict decoding, the lenient allowance spec.md §4.E permits.
func DecodeJSON(raw []byte) (*structloader.Document, error) {
	clean := stripComments(raw)
	clean = trailingCommaRe.ReplaceAll(clean, []byte("$1"))

	var body struct {
		Adaptors json.RawMessage `json:"adaptors"`
		Aliases  json.RawMessage `json:"aliases"`
	}
	if len(bytes.TrimSpace(clean)) == 0 {
		return &structloader.Document{Aliases: map[string][]string{}}, nil
	}
	if err := json.Unmarshal(clean, &body); err != nil {
		return nil, errors.Wrap(err, "decoding json config")
	}
	if body.Adaptors == nil && body.Aliases == nil {
		return nil, &regerr.BadInputError{What: "json config has neither an adaptors nor an aliases key"}
	}

	var adaptorsRaw []any
	if len(body.Adaptors) > 0 {
		if err := json.Unmarshal(body.Adaptors, &adaptorsRaw); err != nil {
			return nil, &regerr.TypeError{What: "adaptors must be a list"}
		}
	}
	var aliasesRaw map[string]any
	if len(body.Aliases) > 0 {
		if err := json.Unmarshal(body.Aliases, &aliasesRaw); err != nil {
			return nil, &regerr.TypeError{What: "aliases must be a map"}
		}
	}

	if err := structloader.ValidateDocumentShape(toAnySlice(adaptorsRaw), toAnyMap(aliasesRaw)); err != nil {
		return nil, err
	}

	doc := &structloader.Document{Aliases: make(map[string][]string)}
	if len(body.Adaptors) > 0 {
		var specs []jsonAdaptorSpec
		if err := json.Unmarshal(body.Adaptors, &specs); err != nil {
			return nil, errors.Wrap(err, "decoding adaptors")
		}
		for _, s := range specs {
			doc.Adaptors = append(doc.Adaptors, s.toSpec())
		}
	}
	if len(body.Aliases) > 0 {
		var aliases map[string][]string
		if err := json.Unmarshal(body.Aliases, &aliases); err != nil {
			return nil, errors.Wrap(err, "decoding aliases")
		}
		doc.Aliases = aliases
	}
	return doc, nil
}

// jsonAdaptorSpec mirrors structloader.AdaptorSpec with the snake_case
// field names the JSON wire format uses.
type jsonAdaptorSpec struct {
	Species                string `json:"species"`
	Group                  string `json:"group"`
	Host                   string `json:"host"`
	Port                   int    `json:"port"`
	User                   string `json:"user"`
	Pass                   string `json:"pass"`
	DBName                 string `json:"dbname"`
	Driver                 string `json:"driver"`
	SpeciesID              int    `json:"species_id"`
	MultispeciesDB         bool   `json:"multispecies_db"`
	DisconnectWhenInactive bool   `json:"disconnect_when_inactive"`
	WaitTimeout            int    `json:"wait_timeout"`
	ReconnectWhenLost      bool   `json:"reconnect_when_lost"`
}

func (s jsonAdaptorSpec) toSpec() structloader.AdaptorSpec {
	return structloader.AdaptorSpec{
		Species:                s.Species,
		Group:                  s.Group,
		Host:                   s.Host,
		Port:                   s.Port,
		User:                   s.User,
		Pass:                   s.Pass,
		DBName:                 s.DBName,
		Driver:                 s.Driver,
		SpeciesID:              s.SpeciesID,
		MultispeciesDB:         s.MultispeciesDB,
		DisconnectWhenInactive: s.DisconnectWhenInactive,
		WaitTimeout:            s.WaitTimeout,
		ReconnectWhenLost:      s.ReconnectWhenLost,
	}
}

func stripComments(raw []byte) []byte {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

func toAnySlice(v []any) any {
	if v == nil {
		return nil
	}
	return v
}

func toAnyMap(v map[string]any) any {
	if v == nil {
		return nil
	}
	return v
}
