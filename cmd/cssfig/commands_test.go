package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"cssfig/fonts"
	"cssfig/paint"
	"cssfig/sink"
	"cssfig/textstyle"
)

func TestWriteFonts(t *testing.T) {
	catalog, err := fonts.NewCatalog(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	catalog.Add("Inter")
	catalog.Add("Roboto", "Regular", "Bold")

	var buf bytes.Buffer
	if err := writeFonts(&buf, catalog); err != nil {
		t.Fatalf("writeFonts() error = %v", err)
	}
	want := "Inter\t*\nRoboto\tBold, Regular\n"
	if buf.String() != want {
		t.Errorf("writeFonts() = %q, want %q", buf.String(), want)
	}
}

func TestWriteLibrary(t *testing.T) {
	lib, err := sink.OpenLibrary(filepath.Join(t.TempDir(), "styles.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()

	if err := lib.CreatePaintStyle("Gray / 10", paint.Color{}); err != nil {
		t.Fatal(err)
	}
	if err := lib.CreatePaintStyle("Gray / 9", paint.Color{}); err != nil {
		t.Fatal(err)
	}
	if err := lib.CreateTextStyle(textstyle.Descriptor{Name: "Body"}, "Inter"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeLibrary(&buf, lib); err != nil {
		t.Fatalf("writeLibrary() error = %v", err)
	}
	want := "paint\tGray / 9\npaint\tGray / 10\ntext\tBody\n"
	if buf.String() != want {
		t.Errorf("writeLibrary() = %q, want %q", buf.String(), want)
	}
}
