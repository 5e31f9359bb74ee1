package workspace

import (
	"fmt"
	"path/filepath"
)

// PlanDesign builds the steps that scaffold designs/<name>: create the
// directory and copy the shared dependencies from ~/build into it. Existing
// copies are overwritten.
func PlanDesign(l Layout, name string) (PlanResult, error) {
	if err := ValidateDesignName(name); err != nil {
		return PlanResult{}, err
	}
	dir, err := SafeJoin(l.DesignsDir, name)
	if err != nil {
		return PlanResult{}, err
	}

	p := PlanResult{Name: "design " + name, Layout: l}
	p.Steps = append(p.Steps, ExecutionStep{
		Operation:   OpMkdir,
		Destination: dir,
		Description: fmt.Sprintf("mkdir -p %s", dir),
	})
	p.expect(dir, ExpectDir)

	for _, it := range designItems {
		src := filepath.Join(l.BuildDir, it.Name)
		dst := filepath.Join(dir, it.Name)
		p.Steps = append(p.Steps, ExecutionStep{
			Operation:   OpCopy,
			Source:      src,
			Destination: dst,
			Description: fmt.Sprintf("copy %s -> %s", src, dst),
		})
		p.expect(dst, kindOf(it))
	}
	return p, nil
}
