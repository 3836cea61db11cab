package schema

import "testing"

// ============================================================================
// RESOLVER TESTS
// ============================================================================

func TestResolveFullExport(t *testing.T) {
	headers := []string{
		"archivo_procesado",
		"Categoría General",
		"Categoria_Especifica_1",
		"Subtipo_Categoria_1",
		"Categoria_Especifica_2",
		"Agente Instalador",
	}

	m, err := Resolve("junio.xlsx", headers, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	assertRole(t, m, RolePrimaryCategory, 1)
	assertRole(t, m, RoleSpecificCategory(1), 2)
	assertRole(t, m, RoleSubtype(1), 3)
	assertRole(t, m, RoleSpecificCategory(2), 4)
	assertRole(t, m, RoleAgent, 5)
	assertRole(t, m, RoleDate, 0) // archivo_procesado is a date alias

	if got := len(m.SpecificCategories()); got != 2 {
		t.Errorf("SpecificCategories: got %d columns, want 2", got)
	}
	if got := len(m.Subtypes()); got != 1 {
		t.Errorf("Subtypes: got %d columns, want 1", got)
	}
}

func TestResolveAliasPriority(t *testing.T) {
	// Both "tipo" and "categoria_general" are plausible; categoria_general
	// must win because it is earlier in the alias order, regardless of
	// column position.
	headers := []string{"tipo", "categoria_general"}

	m, err := Resolve("a.csv", headers, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	assertRole(t, m, RolePrimaryCategory, 1)
}

func TestResolveAccentAndCaseInsensitive(t *testing.T) {
	tests := []struct {
		header string
	}{
		{"CATEGORIA_GENERAL"},
		{"Categoría General"},
		{"CategoriaGeneral"},
		{"categoría-general"},
	}

	for _, tt := range tests {
		m, err := Resolve("x.csv", []string{tt.header}, nil)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", tt.header, err)
			continue
		}
		assertRole(t, m, RolePrimaryCategory, 0)
	}
}

func TestResolveMissingPrimaryCategory(t *testing.T) {
	headers := []string{"id_llamada", "duracion", "telefono"}

	_, err := Resolve("sin_categorias.xlsx", headers, nil)
	if err == nil {
		t.Fatal("Resolve should fail when no primary-category alias matches")
	}

	resErr, ok := err.(*ResolutionError)
	if !ok {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
	if resErr.Role != RolePrimaryCategory {
		t.Errorf("error names role %q, want %q", resErr.Role, RolePrimaryCategory)
	}
	if resErr.Source != "sin_categorias.xlsx" {
		t.Errorf("error names source %q, want %q", resErr.Source, "sin_categorias.xlsx")
	}
}

func TestResolveDateTypedFallback(t *testing.T) {
	headers := []string{"categoria_general", "momento", "agente_instalador"}

	// No date alias matches, but exactly one column is datetime-typed.
	m, err := Resolve("b.xlsx", headers, []bool{false, true, false})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	assertRole(t, m, RoleDate, 1)
}

func TestResolveDateTypedFallbackAmbiguous(t *testing.T) {
	headers := []string{"categoria_general", "inicio", "fin"}

	_, err := Resolve("b.xlsx", headers, []bool{false, true, true})
	if err == nil {
		t.Fatal("Resolve should fail when two datetime-typed columns compete for the date role")
	}
	resErr, ok := err.(*ResolutionError)
	if !ok {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
	if resErr.Role != RoleDate {
		t.Errorf("error names role %q, want %q", resErr.Role, RoleDate)
	}
}

func TestResolveNoDateColumn(t *testing.T) {
	m, err := Resolve("c.csv", []string{"categoria_general"}, []bool{false})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if m.Resolved(RoleDate) {
		t.Error("date role should stay unresolved without aliases or typed columns")
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Categoría General", "categoriageneral"},
		{"categoria_general", "categoriageneral"},
		{"Agente Instalador", "agenteinstalador"},
		{"SUBTIPO-CATEGORIA_1", "subtipocategoria1"},
		{"  Técnico  ", "tecnico"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeHeader(tt.input); got != tt.expected {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func assertRole(t *testing.T, m *RoleMap, role Role, wantIndex int) {
	t.Helper()
	col, ok := m.Column(role)
	if !ok {
		t.Errorf("role %q not resolved", role)
		return
	}
	if col.Index != wantIndex {
		t.Errorf("role %q resolved to column %d (%q), want column %d", role, col.Index, col.Header, wantIndex)
	}
}
