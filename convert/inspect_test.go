package convert

import (
	"context"
	"strings"
	"testing"

	"cssfig/config"
	"cssfig/sink"
)

func TestPipeline_Inspect(t *testing.T) {
	mem := sink.NewMemory()
	catalog := testCatalog(t, config.FontFamilyConfig{Family: "Roboto"}, config.FontFamilyConfig{Family: "Inter"})
	p, ui := newTestPipeline(t, mem, catalog, Options{IsolateCategories: true})

	text := ":root {\n  --brand-color: rgba(0, 0, 0, 0.5);\n  --bad: nope;\n}\n" +
		".heading-1 {\n  font-family: Roboto, Inter;\n  font-weight: 700;\n  line-height: 32px;\n}\n" +
		"#broken { }\n"
	out := p.Inspect(context.Background(), text)

	for _, want := range []string{
		"Variables: 2\n",
		"  Variable[0]\n",
		"    name: \"Brand Color\"\n",
		"    hex: \"#000000\"\n",
		"    opacity: 0.5\n",
		"    error: ",
		"Categories: 2\n",
		"    name: \"Heading / 1\"\n",
		"    font-style: \"Bold\"\n",
		"    font-size: unset\n",
		"    line-height: PIXELS 32\n",
		"    resolved: \"Roboto\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("inspection does not contain %q:\n%s", want, out)
		}
	}

	if !mem.Empty() {
		t.Errorf("inspection must not create styles: %+v", mem)
	}
	if len(ui.Notifications) != 0 {
		t.Errorf("inspection must not notify: %+v", ui.Notifications)
	}
}
