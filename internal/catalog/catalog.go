// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

// =============================================================================
// CATEGORIES
// =============================================================================

// Category identifies one of the fixed problem families the matcher
// scores against. CategoryGeneral is synthetic: it is never declared on a
// record, it is the fallback when no category keyword matches.
type Category int

const (
	CategoryPlatform Category = iota
	CategoryNetwork
	CategorySystem
	CategoryHardware
	CategorySoftware
	CategoryGeneral
)

// Categories returns the scorable categories in their declared order.
// Scoring ties are broken by this order, earliest wins. Keep it stable:
// reordering changes matcher results for ambiguous queries.
func Categories() []Category {
	return []Category{
		CategoryPlatform,
		CategoryNetwork,
		CategorySystem,
		CategoryHardware,
		CategorySoftware,
	}
}

// String returns the serialized (French) name of the category, as it
// appears in the catalogue JSON.
func (c Category) String() string {
	switch c {
	case CategoryPlatform:
		return "plateforme"
	case CategoryNetwork:
		return "reseau"
	case CategorySystem:
		return "systeme"
	case CategoryHardware:
		return "materiel"
	case CategorySoftware:
		return "logiciel"
	case CategoryGeneral:
		return "general"
	default:
		return "inconnu"
	}
}

// ParseCategory maps a serialized category name back to its Category.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "plateforme":
		return CategoryPlatform, true
	case "reseau":
		return CategoryNetwork, true
	case "systeme":
		return CategorySystem, true
	case "materiel":
		return CategoryHardware, true
	case "logiciel":
		return CategorySoftware, true
	case "general":
		return CategoryGeneral, true
	default:
		return CategoryGeneral, false
	}
}

// Keywords returns the identification tokens for the category. A token
// occurring as a substring of a normalized query counts one point toward
// the category. Tokens are stored with their accents; the matcher
// normalizes them before comparing.
func (c Category) Keywords() []string {
	switch c {
	case CategoryPlatform:
		return []string{"site", "notes", "inscription", "université", "compte", "plateforme", "surchargé"}
	case CategoryNetwork:
		return []string{"wifi", "internet", "connexion", "lent", "routeur", "réseau", "connecter", "déconnecte"}
	case CategorySystem:
		return []string{"lent", "rame", "écran", "bleu", "boot", "bios", "windows", "démarre", "allume", "performance"}
	case CategoryHardware:
		return []string{"imprimante", "usb", "clavier", "souris", "batterie", "écran", "moniteur", "disque"}
	case CategorySoftware:
		return []string{"installe", "erreur", "plante", "office", "zoom", "meet", "teams", "visio", "application"}
	default:
		return nil
	}
}

// Fallback returns the canned reply used when no record qualifies for a
// query classified under the category.
func (c Category) Fallback() string {
	switch c {
	case CategoryPlatform:
		return "Problème avec la plateforme universitaire ? Précisez : connexion, notes, inscription ou autre ?"
	case CategoryNetwork:
		return "Souci réseau ? Le Wi-Fi est lent, instable ou impossible à connecter ? Décrivez votre problème."
	case CategorySystem:
		return "Problème système ? PC lent, écran bleu, ou souci de démarrage ? Donnez plus de détails."
	case CategoryHardware:
		return "Quel appareil pose problème : imprimante, USB, écran, batterie, clavier, souris ?"
	case CategorySoftware:
		return "Quel logiciel et quel message d'erreur voyez-vous ? Décrivez le problème précisément."
	default:
		return "Bonjour ! Je suis FIXƆ 🤖 Décrivez votre problème informatique en détail et je vous aiderai à le résoudre."
	}
}

// =============================================================================
// RECORDS
// =============================================================================

// Solution is the canned answer attached to a record.
type Solution struct {
	Summary string   `json:"resume"`
	Steps   []string `json:"etapes"`
}

// Record is one known problem with its matching keywords and solution.
// Field tags follow the catalogue's French JSON schema.
type Record struct {
	Code     string   `json:"code"`
	Category string   `json:"categorie"`
	Title    string   `json:"titre"`
	Keywords []string `json:"motsClés"`
	Solution Solution `json:"solution"`
}

// Catalog is an immutable, ordered set of records. Scan order is the
// declaration order of the source document; the matcher relies on it for
// stable tie-breaking.
type Catalog struct {
	records []Record
}

// New builds a catalogue from already-decoded records.
func New(records []Record) *Catalog {
	return &Catalog{records: records}
}

// Empty returns a catalogue with no records.
func Empty() *Catalog {
	return &Catalog{}
}

// Records returns the records in declaration order. Callers must not
// mutate the returned slice.
func (c *Catalog) Records() []Record {
	if c == nil {
		return nil
	}
	return c.records
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}
