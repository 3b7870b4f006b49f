package csvfile_test

import (
	"strings"
	"testing"

	"starcuak/internal/adapters/csvfile"
)

func TestRead_SemicolonSeparated(t *testing.T) {
	in := "producto;comentario;fecha\nLatte;muy rico;05/01/2026 14:30\nEspresso;frío, y tarde;06/01/2026\n"
	tbl, err := csvfile.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(tbl.Headers) != 3 || tbl.Headers[1] != "comentario" {
		t.Fatalf("headers: %v", tbl.Headers)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows: %d", len(tbl.Rows))
	}
	if tbl.Rows[1][1] != "frío, y tarde" {
		t.Fatalf("comma inside a semicolon row must survive: %q", tbl.Rows[1][1])
	}
}

func TestRead_CommaSeparated(t *testing.T) {
	in := "comentario,producto\nok,Latte\n"
	tbl, err := csvfile.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][0] != "ok" || tbl.Rows[0][1] != "Latte" {
		t.Fatalf("rows: %v", tbl.Rows)
	}
}

func TestRead_StripsUTF8BOM(t *testing.T) {
	in := "\ufeffcomentario\nhola\n"
	tbl, err := csvfile.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if tbl.Headers[0] != "comentario" {
		t.Fatalf("BOM not stripped: %q", tbl.Headers[0])
	}
}

func TestRead_EmptyInput(t *testing.T) {
	tbl, err := csvfile.Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(tbl.Headers) != 0 || len(tbl.Rows) != 0 {
		t.Fatalf("empty input should yield an empty table: %+v", tbl)
	}
}
