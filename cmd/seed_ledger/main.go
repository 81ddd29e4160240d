// seed_ledger genera un script SQL para poblar el catálogo del ledger (tenants, items y bodegas)
// a partir de un CSV exportado del ERP, normalmente en ISO-8859-1.
//
// Columnas esperadas (con encabezado): kind;tenant_id;id;code;name;description
// kind es tenant, item o warehouse; code es el SKU en items y se ignora en el resto.
//
// Uso: go run ./cmd/seed_ledger [-utf8] catalogo.csv > seed.sql
package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type row struct {
	kind, tenantID, id, code, name, description string
}

type catalog struct {
	tenants    []row
	items      []row
	warehouses []row
}

func main() {
	utf8 := flag.Bool("utf8", false, "el CSV ya viene en UTF-8")
	flag.Parse()

	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if !*utf8 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	cat, err := parseCatalog(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	if err := writeSQL(out, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d tenants, %d items, %d bodegas\n", len(cat.tenants), len(cat.items), len(cat.warehouses))
}

func parseCatalog(r io.Reader) (*catalog, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("CSV vacío")
	}

	cat := &catalog{}
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 5 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 5 columnas, hay %d", line, len(rec))
		}
		r := row{
			kind:     strings.ToLower(strings.TrimSpace(rec[0])),
			tenantID: strings.TrimSpace(rec[1]),
			id:       strings.TrimSpace(rec[2]),
			code:     strings.TrimSpace(rec[3]),
			name:     strings.TrimSpace(rec[4]),
		}
		if len(rec) > 5 {
			r.description = strings.TrimSpace(rec[5])
		}
		if r.id == "" || r.name == "" {
			return nil, fmt.Errorf("línea %d: id y name son obligatorios", line)
		}
		switch r.kind {
		case "tenant":
			cat.tenants = append(cat.tenants, r)
		case "item":
			if r.tenantID == "" || r.code == "" {
				return nil, fmt.Errorf("línea %d: item sin tenant_id o SKU", line)
			}
			cat.items = append(cat.items, r)
		case "warehouse":
			if r.tenantID == "" {
				return nil, fmt.Errorf("línea %d: bodega sin tenant_id", line)
			}
			cat.warehouses = append(cat.warehouses, r)
		default:
			return nil, fmt.Errorf("línea %d: kind desconocido %q", line, rec[0])
		}
	}

	// Salida estable: por tenant y luego por id.
	for _, list := range [][]row{cat.tenants, cat.items, cat.warehouses} {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].tenantID != list[j].tenantID {
				return list[i].tenantID < list[j].tenantID
			}
			return list[i].id < list[j].id
		})
	}
	return cat, nil
}

func writeSQL(w io.Writer, cat *catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo del ledger (tenants, items y bodegas)\n")
	b.WriteString("-- Generado por cmd/seed_ledger\n\n")

	if len(cat.tenants) > 0 {
		b.WriteString("-- 1. Tenants\n")
		b.WriteString("INSERT INTO tenants (id, name) VALUES\n")
		for i, t := range cat.tenants {
			fmt.Fprintf(&b, "  ('%s', '%s')%s\n", escapeSQL(t.id), escapeSQL(t.name), sep(i, len(cat.tenants)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;\n\n")
	}

	if len(cat.items) > 0 {
		b.WriteString("-- 2. Items\n")
		b.WriteString("INSERT INTO items (id, tenant_id, sku, name, description) VALUES\n")
		for i, it := range cat.items {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', %s)%s\n",
				escapeSQL(it.id), escapeSQL(it.tenantID), escapeSQL(it.code), escapeSQL(it.name),
				nullable(it.description), sep(i, len(cat.items)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET sku = EXCLUDED.sku, name = EXCLUDED.name, description = EXCLUDED.description;\n\n")
	}

	if len(cat.warehouses) > 0 {
		b.WriteString("-- 3. Bodegas\n")
		b.WriteString("INSERT INTO warehouses (id, tenant_id, name) VALUES\n")
		for i, wh := range cat.warehouses {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s')%s\n",
				escapeSQL(wh.id), escapeSQL(wh.tenantID), escapeSQL(wh.name), sep(i, len(cat.warehouses)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
