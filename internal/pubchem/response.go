package pubchem

import "strings"

// propertyTable mirrors the PUG REST property response:
//
//	{"PropertyTable": {"Properties": [{"CID": 969516, "CanonicalSMILES": "..."}]}}
type propertyTable struct {
	PropertyTable struct {
		Properties []property `json:"Properties"`
	} `json:"PropertyTable"`
}

// property carries the SMILES fields under every name PubChem has used for
// them across API revisions.
type property struct {
	CID             int    `json:"CID"`
	CanonicalSMILES string `json:"CanonicalSMILES"`
	IsomericSMILES  string `json:"IsomericSMILES"`
	SMILES          string `json:"SMILES"`
}

// firstSMILES returns the first non-empty SMILES field of the first
// property entry, or "" when the table is empty.
func (t propertyTable) firstSMILES() string {
	props := t.PropertyTable.Properties
	if len(props) == 0 {
		return ""
	}

	for _, s := range []string{props[0].CanonicalSMILES, props[0].IsomericSMILES, props[0].SMILES} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	return ""
}

// identifierList mirrors {"IdentifierList": {"CID": [969516, ...]}}.
type identifierList struct {
	IdentifierList struct {
		CID []int `json:"CID"`
	} `json:"IdentifierList"`
}

// informationList mirrors the synonyms response:
//
//	{"InformationList": {"Information": [{"CID": 969516, "Synonym": ["..."]}]}}
type informationList struct {
	InformationList struct {
		Information []struct {
			CID     int      `json:"CID"`
			Synonym []string `json:"Synonym"`
		} `json:"Information"`
	} `json:"InformationList"`
}
