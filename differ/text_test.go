package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactText(t *testing.T) {
	op := func(kind Kind, fieldPath, oldValue, newValue string) fact {
		return fact{section: SectionPaths, path: "/users", operation: "post", fieldPath: fieldPath, kind: kind, oldValue: oldValue, newValue: newValue}
	}
	comp := func(kind Kind, fieldPath, oldValue, newValue string) fact {
		return fact{section: SectionComponents, path: "User", fieldPath: fieldPath, kind: kind, oldValue: oldValue, newValue: newValue}
	}

	tests := []struct {
		name string
		fact fact
		want string
	}{
		{"operation added", op(KindOperationAdded, "", "", ""), "added operation POST /users"},
		{"operation removed", op(KindOperationRemoved, "", "", ""), "removed operation POST /users"},
		{"component added", comp(KindComponentAdded, "User", "", ""), "added schema User"},
		{"component removed", comp(KindComponentRemoved, "User", "", ""), "removed schema User"},
		{"undeprecated", op(KindDeprecatedChanged, "deprecated", "true", "false"), "removed deprecation of operation POST /users"},
		{"summary", op(KindSummaryChanged, "summary", "a", "b"), "changed summary of POST /users"},
		{"operation description", op(KindDescriptionChanged, "description", "a", "b"), "changed description of POST /users"},
		{"property added", op(KindPropertyAdded, "requestBody.name", "", ""), "added property requestBody.name in POST /users"},
		{"property removed", comp(KindPropertyRemoved, "User.name", "", ""), "removed property User.name"},
		{"request body added", op(KindRequestBodyAdded, "requestBody", "", ""), "added request body in POST /users"},
		{"request body removed", op(KindRequestBodyRemoved, "requestBody", "", ""), "removed request body in POST /users"},
		{"response removed", op(KindResponseRemoved, "responses.default", "", ""), "removed response default in POST /users"},
		{"schema added", op(KindSchemaAdded, "responses.200", "", ""), "added schema to responses.200 in POST /users"},
		{"type", comp(KindTypeChanged, "User.id", "integer (int64)", "string"), "changed type of User.id from 'integer (int64)' to 'string'"},
		{"required", comp(KindRequiredAdded, "User.email", "false", "true"), "made User.email required"},
		{"format removed", comp(KindFormatChanged, "User.email", "email", ""), "removed format 'email' from User.email"},
		{"format changed", comp(KindFormatChanged, "User.id", "int32", "int64"), "changed format of User.id from 'int32' to 'int64'"},
		{"enum", comp(KindEnumChanged, "User.role", "guest", "admin\nowner"), "changed enum of User.role: added 'admin', 'owner'; removed 'guest'"},
		{"enum added only", comp(KindEnumChanged, "User.role", "", "admin"), "changed enum of User.role: added 'admin'"},
		{"schema description", comp(KindDescriptionChanged, "User", "a", "b"), "changed description of User"},
		{"parameter without location", op(KindParameterAdded, "parameters.limit", "", ""), "added parameter 'limit' in POST /users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fact.text())
		})
	}
}

func TestChangeString(t *testing.T) {
	added := fact{section: SectionPaths, path: "/users", operation: "post", kind: KindOperationAdded}.change()
	assert.Equal(t, "+ [endpoint] added operation POST /users", added.String())

	removed := fact{section: SectionComponents, path: "User", fieldPath: "User.id", kind: KindPropertyRemoved}.change()
	assert.Equal(t, "- [member] removed property User.id", removed.String())

	modified := fact{section: SectionComponents, path: "User", fieldPath: "User", kind: KindDescriptionChanged}.change()
	assert.Equal(t, "~ [text] changed description of User", modified.String())
}

func TestKindLevelsAndSources(t *testing.T) {
	assert.Greater(t, int(KindOperationAdded.Level()), int(KindShapeChanged.Level()))
	assert.Greater(t, int(KindShapeChanged.Level()), int(KindPropertyAdded.Level()))
	assert.Greater(t, int(KindPropertyAdded.Level()), int(KindTypeChanged.Level()))
	assert.Greater(t, int(KindTypeChanged.Level()), int(KindRequiredAdded.Level()))
	assert.Greater(t, int(KindRequiredAdded.Level()), int(KindFormatChanged.Level()))
	assert.Greater(t, int(KindFormatChanged.Level()), int(KindDescriptionChanged.Level()))

	for kind := range kinds {
		assert.True(t, kind.Level().IsValid(), "kind %s", kind)
	}
	assert.Equal(t, SourceAdded, KindComponentAdded.Source())
	assert.Equal(t, SourceRemoved, KindParameterRemoved.Source())
	assert.Equal(t, SourceModified, KindRequiredRemoved.Source())
	assert.Equal(t, SourceModified, Kind("unknown").Source())
}
