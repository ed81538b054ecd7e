// seed_insumos genera un script SQL idempotente para cargar el catálogo de insumos
// desde un CSV exportado por la hoja de inventario del laboratorio.
//
// Formato: ISO-8859-1, separado por ';', columnas codigo;nombre;unidad;cantidad_minima;precio
// (la primera fila puede ser el encabezado). Los decimales aceptan coma o punto.
//
// Uso: go run ./cmd/seed_insumos catalogo.csv [salida.sql]
// Sin salida explícita escribe en stdout.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-lab/internal/domain/inventory"
)

// itemNamespace espacio para ids deterministas: el mismo código produce el mismo id.
var itemNamespace = uuid.MustParse("6f1c2a9e-4b7d-4f0e-9a51-3c8d2e7b1f40")

type catalogRow struct {
	code, name, unit string
	min, price       decimal.Decimal
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_insumos catalogo.csv [salida.sql]")
		os.Exit(2)
	}
	in, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	n, err := convert(in, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Convertir catálogo: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generados %d insumos\n", n)
}

// convert lee el CSV Latin-1 y escribe un INSERT por insumo.
func convert(r io.Reader, w io.Writer) (int, error) {
	rows, err := readCatalog(r)
	if err != nil {
		return 0, err
	}
	fmt.Fprintln(w, "-- Catálogo de insumos del laboratorio")
	fmt.Fprintln(w, "-- Generado por seed_insumos; se puede ejecutar varias veces")
	fmt.Fprintln(w)
	for _, row := range rows {
		id := uuid.NewSHA1(itemNamespace, []byte(row.code)).String()
		level := inventory.ItemAlertLevel(nil, &row.min)
		fmt.Fprintf(w,
			"INSERT INTO insumos (id, codigo, nombre, unidad_medida, cantidad_minima, precio_unitario, nivel_alerta)\n"+
				"VALUES ('%s', '%s', '%s', '%s', %s, %s, '%s')\n"+
				"ON CONFLICT (codigo) DO NOTHING;\n",
			id, escapeSQL(row.code), escapeSQL(row.name), escapeSQL(row.unit),
			row.min.StringFixed(2), row.price.StringFixed(2), level)
	}
	return len(rows), nil
}

func readCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows []catalogRow
		seen = map[string]bool{}
		line int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("línea %d: se esperaban 5 columnas, hay %d", line, len(rec))
		}
		row := catalogRow{
			code: strings.TrimSpace(rec[0]),
			name: strings.TrimSpace(rec[1]),
			unit: strings.TrimSpace(rec[2]),
		}
		if row.code == "" || row.name == "" {
			return nil, fmt.Errorf("línea %d: código y nombre son obligatorios", line)
		}
		if row.min, err = parseDecimal(rec[3]); err != nil {
			return nil, fmt.Errorf("línea %d: cantidad_minima: %w", line, err)
		}
		if row.price, err = parseDecimal(rec[4]); err != nil {
			return nil, fmt.Errorf("línea %d: precio: %w", line, err)
		}
		// el primer registro de un código gana, igual que ON CONFLICT
		if seen[row.code] {
			continue
		}
		seen[row.code] = true
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %s", s)
	}
	return d, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
