package config

import (
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/andrewyatz/ensembl-registry/internal/structloader"
)

const defaultSectionName = "default"

var aliasSplitRe = regexp.MustCompile(`\r?\n`)

// DecodeINI implements the INI half of ConfigLoader (spec.md §4.E /
// §6 "Config INI"): every section except [default] is an adaptor
// record, with [default]'s keys merged in as defaults. An empty or
// missing file is tolerated and decodes to an empty Document.
func DecodeINI(raw []byte) (*structloader.Document, error) {
	doc := &structloader.Document{Aliases: make(map[string][]string)}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return doc, nil
	}

	f, err := ini.LoadSources(ini.LoadOptions{AllowNonUniqueSections: false, AllowPythonMultilineValues: true}, raw)
	if err != nil {
		return nil, err
	}

	defaults := map[string]string{}
	if f.HasSection(defaultSectionName) {
		defaults = f.Section(defaultSectionName).KeysHash()
	}

	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection || sec.Name() == defaultSectionName {
			continue
		}

		keys := mergeDefaults(defaults, sec.KeysHash())

		species := keys["species"]
		group := keys["group"]
		if species == "" || group == "" {
			log.WithField("section", sec.Name()).Warn("config section missing species or group, skipping")
			continue
		}

		spec := structloader.AdaptorSpec{
			Species:                species,
			Group:                  group,
			Host:                   keys["host"],
			User:                   keys["user"],
			Pass:                   keys["pass"],
			DBName:                 keys["dbname"],
			Driver:                 keys["driver"],
			Port:                   atoiOr(keys["port"], 0),
			SpeciesID:              atoiOr(keys["species_id"], 0),
			MultispeciesDB:         boolOr(keys["multispecies_db"]),
			DisconnectWhenInactive: boolOr(keys["disconnect_when_inactive"]),
			WaitTimeout:            atoiOr(keys["wait_timeout"], 0),
			ReconnectWhenLost:      boolOr(keys["reconnect_when_connection_lost"]),
		}
		doc.Adaptors = append(doc.Adaptors, spec)

		if raw, ok := keys["alias"]; ok && raw != "" {
			for _, a := range aliasSplitRe.Split(raw, -1) {
				a = strings.TrimSpace(a)
				if a == "" {
					continue
				}
				doc.Aliases[species] = appendUnique(doc.Aliases[species], a)
			}
		}
	}
	return doc, nil
}

func mergeDefaults(defaults, section map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(section))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range section {
		out[k] = v
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func boolOr(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
