package model_test

import (
	"math/rand/v2"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

func mustSchema(t *testing.T, value types.SchemaFieldID) model.SchemaField {
	t.Helper()
	s, ok := model.LookupSchema(value)
	if !ok {
		t.Fatalf("schema %s not in catalog", value)
	}
	return s
}

func addAll(t *testing.T, form *model.SegmentForm, values ...types.SchemaFieldID) {
	t.Helper()
	for _, v := range values {
		gt.NoError(t, form.SelectPending(v)).Required()
		gt.B(t, form.AddPending()).True()
	}
}

func TestSegmentForm_AddPending(t *testing.T) {
	t.Run("appends pending and clears it", func(t *testing.T) {
		form := model.NewSegmentForm()
		gt.NoError(t, form.SelectPending("city")).Required()

		gt.B(t, form.AddPending()).True()
		gt.Value(t, form.Selection()).Equal([]model.SchemaField{mustSchema(t, "city")})

		_, ok := form.Pending()
		gt.B(t, ok).False()
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		form := model.NewSegmentForm()
		addAll(t, form, "state", "age", "first_name")

		sel := form.Selection()
		gt.Array(t, sel).Length(3)
		gt.Value(t, sel[0].Value).Equal(types.SchemaFieldID("state"))
		gt.Value(t, sel[1].Value).Equal(types.SchemaFieldID("age"))
		gt.Value(t, sel[2].Value).Equal(types.SchemaFieldID("first_name"))
	})

	t.Run("nothing pending is a no-op", func(t *testing.T) {
		form := model.NewSegmentForm()
		gt.B(t, form.AddPending()).False()
		gt.Array(t, form.Selection()).Length(0)
	})

	t.Run("already selected field cannot be picked", func(t *testing.T) {
		form := model.NewSegmentForm()
		addAll(t, form, "city")

		err := form.SelectPending("city")
		gt.Error(t, err).Is(model.ErrSchemaAlreadySelected)
		gt.B(t, form.AddPending()).False()
		gt.Array(t, form.Selection()).Length(1)
	})

	t.Run("unknown field cannot be picked", func(t *testing.T) {
		form := model.NewSegmentForm()
		gt.Error(t, form.SelectPending("country")).Is(model.ErrUnknownSchema)
	})

	t.Run("empty value clears pending", func(t *testing.T) {
		form := model.NewSegmentForm()
		gt.NoError(t, form.SelectPending("age")).Required()
		gt.NoError(t, form.SelectPending("")).Required()
		_, ok := form.Pending()
		gt.B(t, ok).False()
	})

	t.Run("random add sequences never produce duplicates", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(42, 7))
		catalog := model.Catalog()

		for round := 0; round < 300; round++ {
			form := model.NewSegmentForm()
			steps := rng.IntN(20)
			for step := 0; step < steps; step++ {
				pick := catalog[rng.IntN(len(catalog))]
				_ = form.SelectPending(pick.Value)
				form.AddPending()
				form.AddPending()
			}

			seen := map[types.SchemaFieldID]bool{}
			for _, s := range form.Selection() {
				gt.B(t, seen[s.Value]).
					Describef("duplicate %s in round %d", s.Value, round).
					False()
				seen[s.Value] = true
			}
		}
	})
}

func TestSegmentForm_ChangeAt(t *testing.T) {
	t.Run("replaces only the targeted position", func(t *testing.T) {
		form := model.NewSegmentForm()
		addAll(t, form, "first_name", "city", "age")
		before := form.Selection()

		gt.NoError(t, form.ChangeAt(1, mustSchema(t, "state"))).Required()

		after := form.Selection()
		gt.Array(t, after).Length(3)
		gt.Value(t, after[0]).Equal(before[0])
		gt.Value(t, after[1]).Equal(mustSchema(t, "state"))
		gt.Value(t, after[2]).Equal(before[2])
	})

	t.Run("out of range index leaves selection untouched", func(t *testing.T) {
		form := model.NewSegmentForm()
		addAll(t, form, "first_name")

		gt.Error(t, form.ChangeAt(1, mustSchema(t, "city"))).Is(model.ErrIndexOutOfRange)
		gt.Error(t, form.ChangeAt(-1, mustSchema(t, "city"))).Is(model.ErrIndexOutOfRange)
		gt.Value(t, form.Selection()).Equal([]model.SchemaField{mustSchema(t, "first_name")})
	})

	t.Run("pending equal to replacement is cleared", func(t *testing.T) {
		form := model.NewSegmentForm()
		addAll(t, form, "first_name")
		gt.NoError(t, form.SelectPending("city")).Required()

		gt.NoError(t, form.ChangeAt(0, mustSchema(t, "city"))).Required()
		_, ok := form.Pending()
		gt.B(t, ok).False()
	})
}

func TestSegmentForm_OptionsAt(t *testing.T) {
	form := model.NewSegmentForm()
	addAll(t, form, "first_name", "city")

	options, err := form.OptionsAt(0)
	gt.NoError(t, err).Required()
	gt.Array(t, options).Length(7)

	disabled := map[types.SchemaFieldID]bool{}
	for _, o := range options {
		disabled[o.Value] = o.Disabled
	}
	gt.B(t, disabled["first_name"]).False()
	gt.B(t, disabled["city"]).True()
	gt.B(t, disabled["age"]).False()

	_, err = form.OptionsAt(2)
	gt.Error(t, err).Is(model.ErrIndexOutOfRange)
}

func TestSegmentForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"regular name", "VIP Users", false},
		{"empty", "", true},
		{"spaces only", "   ", true},
		{"tabs and newlines", "\t\n", true},
		{"padded name", "  Churned  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := model.NewSegmentForm()
			form.SetName(tt.input)

			err := form.Validate()
			if tt.wantErr {
				gt.Error(t, err).Is(model.ErrEmptySegmentName)
				gt.Value(t, form.NameError()).Equal(model.NameRequiredMessage)
			} else {
				gt.NoError(t, err)
				gt.Value(t, form.NameError()).Equal("")
			}
		})
	}

	t.Run("editing the name clears the message", func(t *testing.T) {
		form := model.NewSegmentForm()
		gt.Value(t, form.Validate()).NotNil()
		form.SetName("x")
		gt.Value(t, form.NameError()).Equal("")
	})
}

func TestSegmentForm_Payload(t *testing.T) {
	form := model.NewSegmentForm()
	form.SetName(" Locals ")
	addAll(t, form, "first_name", "city")

	p := form.Payload()
	gt.Value(t, p.SegmentName).Equal("Locals")
	gt.Value(t, p.Schema).Equal(map[string]string{"first_name": "First Name", "city": "City"})
}

func TestSegmentForm_Reset(t *testing.T) {
	form := model.NewSegmentForm()
	form.SetName("Locals")
	addAll(t, form, "city")
	gt.NoError(t, form.SelectPending("age")).Required()

	form.Reset()

	gt.Value(t, form.Name()).Equal("")
	gt.Array(t, form.Selection()).Length(0)
	_, ok := form.Pending()
	gt.B(t, ok).False()
	gt.Array(t, form.Available()).Length(7)
}
