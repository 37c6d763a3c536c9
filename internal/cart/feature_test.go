package cart

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type cartFeature struct {
	cart    *Cart
	pkgLine string
	err     error
}

func (f *cartFeature) anEmptyCart() error {
	f.cart = New()
	f.pkgLine = ""
	f.err = nil
	return nil
}

func (f *cartFeature) iAdd(id, name, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	f.err = f.cart.AddItem(id, name, p)
	return nil
}

func (f *cartFeature) iSetTheQuantityOf(id string, qty int) error {
	f.err = f.cart.UpdateQuantity(id, qty)
	return nil
}

func (f *cartFeature) iRemove(id string) error {
	f.cart.RemoveItem(id)
	return nil
}

func (f *cartFeature) iClearTheCart() error {
	f.cart.Clear()
	return nil
}

func (f *cartFeature) iAddAPackage(name, price string, table *godog.Table) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}

	var components []Component
	for _, row := range table.Rows[1:] {
		qty, err := strconv.Atoi(row.Cells[2].Value)
		if err != nil {
			return err
		}
		components = append(components, Component{
			ID:       row.Cells[0].Value,
			Name:     row.Cells[1].Value,
			Quantity: qty,
		})
	}

	line, err := f.cart.AddPackageResult(components, p, name)
	f.err = err
	f.pkgLine = line.ID
	return nil
}

func (f *cartFeature) theCartTotalIs(expected string) error {
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !f.cart.Total().Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, f.cart.Total())
	}

	sum := decimal.Zero
	for _, l := range f.cart.Lines() {
		sum = sum.Add(l.Subtotal())
	}
	if !sum.Equal(f.cart.Total()) {
		return fmt.Errorf("running total %s diverged from lines %s", f.cart.Total(), sum)
	}
	return nil
}

func (f *cartFeature) lineHasQuantity(id string, qty int) error {
	line, ok := f.cart.Line(id)
	if !ok {
		return fmt.Errorf("line %q not found", id)
	}
	if line.Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, line.Quantity)
	}
	return nil
}

func (f *cartFeature) lineIsAbsent(id string) error {
	if _, ok := f.cart.Line(id); ok {
		return fmt.Errorf("line %q still present", id)
	}
	return nil
}

func (f *cartFeature) theCartHasLines(n int) error {
	if f.cart.Len() != n {
		return fmt.Errorf("expected %d lines, got %d", n, f.cart.Len())
	}
	return nil
}

func (f *cartFeature) thePackageLineHasComponents(n int) error {
	line, ok := f.cart.Line(f.pkgLine)
	if !ok {
		return fmt.Errorf("package line %q not found", f.pkgLine)
	}
	if !line.IsComposite() || len(line.Components) != n {
		return fmt.Errorf("expected composite line with %d components, got %+v", n, line)
	}
	return nil
}

func (f *cartFeature) theLastOperationFailedWith(msg string) error {
	if f.err == nil || f.err.Error() != msg {
		return fmt.Errorf("expected error %q, got %v", msg, f.err)
	}
	return nil
}

func InitializeCartScenario(ctx *godog.ScenarioContext) {
	f := &cartFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, f.anEmptyCart()
	})

	ctx.Step(`^an empty cart$`, f.anEmptyCart)
	ctx.Step(`^I add "([^"]*)" named "([^"]*)" at (\d+\.\d+)$`, f.iAdd)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, f.iSetTheQuantityOf)
	ctx.Step(`^I remove "([^"]*)"$`, f.iRemove)
	ctx.Step(`^I clear the cart$`, f.iClearTheCart)
	ctx.Step(`^I add a package "([^"]*)" priced (\d+\.\d+) with components:$`, f.iAddAPackage)

	ctx.Step(`^the cart total is (\d+\.\d+)$`, f.theCartTotalIs)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, f.lineHasQuantity)
	ctx.Step(`^line "([^"]*)" is absent$`, f.lineIsAbsent)
	ctx.Step(`^the cart has (\d+) lines$`, f.theCartHasLines)
	ctx.Step(`^the package line has (\d+) components$`, f.thePackageLineHasComponents)
	ctx.Step(`^the last operation failed with "([^"]*)"$`, f.theLastOperationFailedWith)
}

func TestCartFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeCartScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
