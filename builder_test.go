package loadgate

import (
	"errors"
	"testing"

	"github.com/loadgate/loadgate-go/filter"
	"github.com/loadgate/loadgate-go/source"
)

func TestViewBuilderBuild(t *testing.T) {
	views, err := NewViewBuilder().
		View("itemprices", "itemprice").
		Key("RowPointer").
		Property("RowPointer", filter.KindText).
		Property("Item", filter.KindText).
		Property("UnitPrice", filter.KindDecimal).
		DefaultOrderBy("Item ASC").
		View("custprices", "custprice").
		Key("RowPointer").
		Property("RowPointer", filter.KindText).
		Seeded("CustNum", filter.KindText, "( CustNum = 'C000001' )").
		Build()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
	if views[0].Name() != "itemprices" || views[1].Name() != "custprices" {
		t.Errorf("names = %s, %s", views[0].Name(), views[1].Name())
	}
}

func TestViewBuilderDuplicateName(t *testing.T) {
	_, err := NewViewBuilder().
		View("v", "t").Key("K").Property("K", filter.KindText).
		View("v", "t").Key("K").Property("K", filter.KindText).
		Build()
	if err == nil {
		t.Fatal("expected an error for duplicate view names")
	}
}

func TestViewBuilderBuildTwice(t *testing.T) {
	vb := NewViewBuilder()
	vb.View("v", "t").Key("K").Property("K", filter.KindText)
	if _, err := vb.Build(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := vb.Build(); err == nil {
		t.Fatal("expected an error on second Build")
	}
}

func TestViewBuilderInvalidView(t *testing.T) {
	_, err := NewViewBuilder().
		View("v", "t").Key("Missing").Property("K", filter.KindText).
		Build()
	if err == nil {
		t.Fatal("expected an error for an undeclared key")
	}
}

func TestNewEngineValidation(t *testing.T) {
	views, err := NewViewBuilder().
		View("v", "t").Key("K").Property("K", filter.KindText).
		Build()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := New(Config{Views: views}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing source: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(Config{Source: source.NewMemory()}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing views: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(Config{Source: source.NewMemory(), Views: views}); err != nil {
		t.Errorf("valid config: err = %v", err)
	}
}
