package incidents

import (
	"reflect"
	"testing"
)

func TestBucketCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", CategoryUnknown},
		{"   ", CategoryUnknown},
		{"Backup diário", "Backup/Restore"},
		{"Restore de VM", "Backup/Restore"},
		{"IT Security - phishing", "IT Security"},
		{"Segurança da informação", "IT Security"},
		{"Monitoramento", "Monitoring"},
		{"Problema de rede", "Network"},
		{"Network switch", "Network"},
		{"Servidor de arquivos", "Server"},
		{"Suporte ao usuário", "Service Support"},
		{"Software corporativo", "Software"},
		{"Programa de folha", "Software"},
		{"Hardware - impressora", "Hardware"},
		{"Equipment swap", "Hardware"},
		{"Cloud AWS", "Cloud"},
		{"Migração para nuvem", "Cloud"},
		{"Database Oracle", "Database"},
		{"Banco de dados SQL", "Database"},
		// no rule matched: pass through trimmed
		{"  xyz-custom  ", "xyz-custom"},
	}
	for _, tc := range cases {
		if got := BucketCategory(tc.raw); got != tc.want {
			t.Errorf("BucketCategory(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestBucketCategoryRuleOrder(t *testing.T) {
	// "backup do servidor" matches both the backup and server rules; the
	// backup rule comes first.
	if got := BucketCategory("backup do servidor"); got != "Backup/Restore" {
		t.Fatalf("got %q, want Backup/Restore", got)
	}
}

func TestCategoriesDistinctSorted(t *testing.T) {
	set := []Incident{
		{Category: "Problema de rede"},
		{Category: "Network switch"},
		{Category: "zeta"},
		{Category: ""},
		{Category: "Backup diário"},
	}
	got := Categories(set)
	// byte-wise sort: "Não categorizado" starts with a multi-byte rune and
	// lands after the ASCII labels
	want := []string{"Backup/Restore", "Network", "zeta", CategoryUnknown}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
}
