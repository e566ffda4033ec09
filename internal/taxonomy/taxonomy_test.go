package taxonomy

import (
	"sort"
	"strings"
	"testing"
)

func TestVocabularyCategoriesSorted(t *testing.T) {
	cats := VocabularyCategories()
	if len(cats) == 0 {
		t.Fatal("Expected vocabulary categories")
	}
	if !sort.StringsAreSorted(cats) {
		t.Errorf("Categories not sorted: %v", cats)
	}

	for _, cat := range cats {
		if len(VocabularyTerms(cat)) == 0 {
			t.Errorf("Category %s has no terms", cat)
		}
	}
}

func TestVocabularyTermsAreLowercase(t *testing.T) {
	for _, cat := range VocabularyCategories() {
		for _, term := range VocabularyTerms(cat) {
			if term != strings.ToLower(term) {
				t.Errorf("Term %q in %s is not lowercase", term, cat)
			}
		}
	}
}

func TestEntriesSortedByName(t *testing.T) {
	all := Entries()
	if len(all) == 0 {
		t.Fatal("Expected relation graph entries")
	}
	for i := 1; i < len(all); i++ {
		if all[i].Name < all[i-1].Name {
			t.Errorf("Entries not sorted: %s before %s", all[i-1].Name, all[i].Name)
		}
	}
	for _, e := range all {
		if e.Tier != TierCore && e.Tier != TierIntermediate && e.Tier != TierAdvanced {
			t.Errorf("Entry %s has unknown tier %q", e.Name, e.Tier)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		query string
		found bool
		name  string
	}{
		{"python", true, "Python"},
		{"PYTHON", true, "Python"},
		{"Kubernetes", true, "Kubernetes"},
		{"cobol", false, ""},
	}

	for _, tt := range tests {
		entry, ok := Lookup(tt.query)
		if ok != tt.found {
			t.Errorf("Lookup(%q) found=%v, want %v", tt.query, ok, tt.found)
			continue
		}
		if ok && entry.Name != tt.name {
			t.Errorf("Lookup(%q) = %s, want %s", tt.query, entry.Name, tt.name)
		}
	}
}

func TestCareerPaths(t *testing.T) {
	roles := CareerRoles()
	if !sort.StringsAreSorted(roles) {
		t.Errorf("Career roles not sorted: %v", roles)
	}

	for _, role := range roles {
		path, ok := LookupCareerPath(role)
		if !ok {
			t.Fatalf("Role %s listed but not resolvable", role)
		}
		if path.Role != role {
			t.Errorf("Path role %s does not match key %s", path.Role, role)
		}
		if len(path.CoreSkills) == 0 {
			t.Errorf("Role %s has no core skills", role)
		}
		if path.NextLevel == "" {
			t.Errorf("Role %s has no next level", role)
		}
		if path.TypicalYears <= 0 {
			t.Errorf("Role %s has non-positive typical years", role)
		}
	}

	if _, ok := LookupCareerPath("Senior Software Engineer"); !ok {
		t.Error("Expected Senior Software Engineer career path")
	}
	if _, ok := LookupCareerPath("Astronaut"); ok {
		t.Error("Unknown role should not resolve")
	}
}

func TestRoleIndicatorsOrderedByRole(t *testing.T) {
	indicators := RoleIndicators()
	if len(indicators) == 0 {
		t.Fatal("Expected role indicators")
	}
	for i := 1; i < len(indicators); i++ {
		if indicators[i].Role < indicators[i-1].Role {
			t.Errorf("Role indicators not ordered: %s before %s",
				indicators[i-1].Role, indicators[i].Role)
		}
	}
	for _, ri := range indicators {
		if len(ri.Indicators) == 0 {
			t.Errorf("Role %s has no indicators", ri.Role)
		}
	}
}

func TestMarketTables(t *testing.T) {
	if len(HotSkills()) == 0 {
		t.Error("Expected hot skills")
	}
	if len(EmergingTech()) == 0 {
		t.Error("Expected emerging tech")
	}

	level, ok := IndustryDemand("DevOps Engineer")
	if !ok || level == "" {
		t.Error("Expected demand level for DevOps Engineer")
	}
	if _, ok := IndustryDemand("Alchemist"); ok {
		t.Error("Unknown role should have no demand entry")
	}
}
