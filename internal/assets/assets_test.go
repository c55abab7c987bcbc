package assets

import (
	"io/fs"
	"strings"
	"testing"
)

func TestFS_ContainsCheckboxScript(t *testing.T) {
	data, err := fs.ReadFile(FS(), CheckboxColumnScript)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", CheckboxColumnScript, err)
	}
	if !strings.Contains(string(data), "window.kvSelectRow") {
		t.Error("script does not define kvSelectRow")
	}
}

func TestPage_RegisterJSKeepsFirst(t *testing.T) {
	p := NewPage()
	p.RegisterJS("a", "one();")
	p.RegisterJS("b", "two();")
	p.RegisterJS("a", "three();")

	if got, want := p.Inline(), "one();\ntwo();\n"; got != want {
		t.Errorf("Inline() = %q, want %q", got, want)
	}
}

func TestRegisterSelectRow_EscapesIDs(t *testing.T) {
	p := NewPage()
	p.RegisterSelectRow("</script><x>", "danger")

	if strings.Contains(p.Inline(), "</script>") {
		t.Errorf("container id not escaped: %s", p.Inline())
	}
}
