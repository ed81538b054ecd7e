package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestConvert_CatalogoLatin1(t *testing.T) {
	csv := "codigo;nombre;unidad;cantidad_minima;precio\n" +
		"R-001;Ácido clorhídrico;L;5,5;12000\n" +
		"R-002;Reactivo D'Agostino;ml;10;3500.75\n" +
		"R-001;Duplicado;L;1;1\n"

	var out bytes.Buffer
	n, err := convert(bytes.NewReader(latin1(t, csv)), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "los códigos repetidos se ignoran")

	sql := out.String()
	assert.Contains(t, sql, "'Ácido clorhídrico'", "el texto se convierte a UTF-8")
	assert.Contains(t, sql, "'Reactivo D''Agostino'")
	assert.Contains(t, sql, "5.50, 12000.00")
	assert.Contains(t, sql, "10.00, 3500.75")
	assert.Equal(t, 2, strings.Count(sql, "ON CONFLICT (codigo) DO NOTHING;"))
	assert.NotContains(t, sql, "Duplicado")
}

func TestConvert_IdDeterminista(t *testing.T) {
	csv := []byte("R-9;Etanol;L;1;1\n")
	var a, b bytes.Buffer
	_, err := convert(bytes.NewReader(csv), &a)
	require.NoError(t, err)
	_, err = convert(bytes.NewReader(csv), &b)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestConvert_Errores(t *testing.T) {
	cases := map[string]string{
		"columnas faltantes": "R-1;Etanol;L\n",
		"sin nombre":         "R-1;;L;1;1\n",
		"minimo invalido":    "R-1;Etanol;L;abc;1\n",
		"precio negativo":    "R-1;Etanol;L;1;-5\n",
	}
	for name, csv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := convert(strings.NewReader(csv), &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}
