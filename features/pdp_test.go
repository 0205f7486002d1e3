package features

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/PeqNP/CommandAndControl/catalog"
	"github.com/PeqNP/CommandAndControl/command"
	"github.com/PeqNP/CommandAndControl/deferred"
	"github.com/PeqNP/CommandAndControl/logic"
	"github.com/PeqNP/CommandAndControl/runloop"
)

var errServiceDown = errors.New("service down")

type bagRequest struct {
	skuID    catalog.SKUID
	quantity int
	pending  *deferred.Deferred[catalog.BagReceipt]
}

type pdpTestContext struct {
	product  catalog.Product
	cc       *command.CommandAndControl
	sched    *runloop.ManualScheduler
	commands []command.Command
	seen     int

	bagRequests []bagRequest
	shipping    *deferred.Deferred[catalog.ShippingInfo]
}

func (c *pdpTestContext) reset() {
	if c.cc != nil {
		c.cc.Close()
	}
	*c = pdpTestContext{sched: runloop.NewManualScheduler()}
}

func (c *pdpTestContext) AddToBag(_ context.Context, skuID catalog.SKUID, quantity int) *deferred.Deferred[catalog.BagReceipt] {
	d := deferred.New[catalog.BagReceipt]()
	c.bagRequests = append(c.bagRequests, bagRequest{skuID: skuID, quantity: quantity, pending: d})
	return d
}

func (c *pdpTestContext) ShippingInfoFor(_ context.Context, _ catalog.ProductID) *deferred.Deferred[catalog.ShippingInfo] {
	c.shipping = deferred.New[catalog.ShippingInfo]()
	return c.shipping
}

func (c *pdpTestContext) aProductWithSKUs(name string, table *godog.Table) error {
	c.product = catalog.Product{ID: 1, Name: name}
	for _, row := range table.Rows[1:] {
		id, err := strconv.ParseInt(row.Cells[0].Value, 10, 64)
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(row.Cells[3].Value)
		if err != nil {
			return err
		}
		c.product.SKUs = append(c.product.SKUs, catalog.SKU{
			ID:    catalog.SKUID(id),
			Color: catalog.SKUColor{Name: row.Cells[1].Value},
			Size:  catalog.SKUSize{Name: row.Cells[2].Value},
			Price: catalog.Regular(amount),
		})
	}
	c.product.Price = catalog.Single(c.product.SKUs[0].Price)
	return c.product.Validate()
}

func (c *pdpTestContext) thePageIsConfigured() error {
	cc, err := command.New(
		command.Dependencies{Bag: c, Shipping: c},
		command.WithExecutor(runloop.Inline{}),
		command.WithScheduler(c.sched),
	)
	if err != nil {
		return err
	}
	cc.Subscribe(command.DelegateFunc(func(cmd command.Command) {
		c.commands = append(c.commands, cmd)
	}))
	c.cc = cc
	cc.Receive(command.Configure{Product: c.product})
	return nil
}

func (c *pdpTestContext) iSelectColour(name string) error {
	c.cc.Receive(command.SelectColor{Color: catalog.SKUColor{Name: name}})
	return nil
}

func (c *pdpTestContext) iSelectSize(name string) error {
	c.cc.Receive(command.SelectSize{Size: catalog.SKUSize{Name: name}})
	return nil
}

func (c *pdpTestContext) iIncreaseTheAmount() error {
	c.cc.Receive(command.IncreaseAmount{})
	return nil
}

func (c *pdpTestContext) iDecreaseTheAmount() error {
	c.cc.Receive(command.DecreaseAmount{})
	return nil
}

func (c *pdpTestContext) iSetTheAmountTo(n int) error {
	c.cc.Receive(command.SetAmount{Amount: n})
	return nil
}

func (c *pdpTestContext) iTapAddToBag() error {
	c.cc.Receive(command.AddToBagTapped{})
	return nil
}

func (c *pdpTestContext) iRequestShippingInfo() error {
	c.cc.Receive(command.RequestShippingInfo{})
	return nil
}

func (c *pdpTestContext) iClose() error {
	c.cc.Close()
	return nil
}

func (c *pdpTestContext) iHaveSeenEveryCommand() error {
	c.seen = len(c.commands)
	return nil
}

func (c *pdpTestContext) lastBagRequest() (bagRequest, error) {
	if len(c.bagRequests) == 0 {
		return bagRequest{}, errors.New("bag service was never called")
	}
	return c.bagRequests[len(c.bagRequests)-1], nil
}

func (c *pdpTestContext) theBagServiceSucceeds() error {
	req, err := c.lastBagRequest()
	if err != nil {
		return err
	}
	req.pending.Resolve(catalog.BagReceipt{SKUID: req.skuID, Quantity: req.quantity})
	return nil
}

func (c *pdpTestContext) theBagServiceFails() error {
	req, err := c.lastBagRequest()
	if err != nil {
		return err
	}
	req.pending.Reject(errServiceDown)
	return nil
}

func (c *pdpTestContext) theShippingServiceAnswers(name, cost string) error {
	if c.shipping == nil {
		return errors.New("shipping service was never called")
	}
	amount, err := decimal.NewFromString(cost)
	if err != nil {
		return err
	}
	c.shipping.Resolve(catalog.ShippingInfo{
		ProductID: c.product.ID,
		Methods:   []catalog.ShippingMethod{{Name: name, Cost: amount, MinDays: 2, MaxDays: 4}},
	})
	return nil
}

func (c *pdpTestContext) theShippingServiceFails() error {
	if c.shipping == nil {
		return errors.New("shipping service was never called")
	}
	c.shipping.Reject(errServiceDown)
	return nil
}

func (c *pdpTestContext) theResetDelayElapses() error {
	if c.sched.FireAll() == 0 {
		return errors.New("nothing was scheduled")
	}
	return nil
}

func commandName(cmd command.Command) string {
	switch cmd := cmd.(type) {
	case command.Update:
		return "update(" + cmd.ViewState.AddToBagState.String() + ")"
	case command.ShowLoadingIndicator:
		return "showLoading"
	case command.HideLoadingIndicator:
		return "hideLoading"
	case command.ShowShippingInfo:
		return "showShippingInfo"
	case command.ShowMoreInfo:
		return "showMoreInfo"
	case command.ShowImageGallery:
		return "showImageGallery"
	case command.RouteToPDP:
		return "routeToPDP"
	case command.ShowError:
		return "showError"
	default:
		return fmt.Sprintf("%T", cmd)
	}
}

func (c *pdpTestContext) thePageReceivedCommands(list string) error {
	var want []string
	for _, name := range strings.Split(list, ",") {
		want = append(want, strings.TrimSpace(name))
	}
	var got []string
	for _, cmd := range c.commands[c.seen:] {
		got = append(got, commandName(cmd))
	}
	c.seen = len(c.commands)

	if strings.Join(got, ", ") != strings.Join(want, ", ") {
		return fmt.Errorf("expected commands [%s], got [%s]", strings.Join(want, ", "), strings.Join(got, ", "))
	}
	return nil
}

func (c *pdpTestContext) lastUpdate() (command.Update, error) {
	for i := len(c.commands) - 1; i >= 0; i-- {
		if u, ok := c.commands[i].(command.Update); ok {
			return u, nil
		}
	}
	return command.Update{}, errors.New("no update received")
}

func (c *pdpTestContext) theSelectedSKUIs(id int) error {
	u, err := c.lastUpdate()
	if err != nil {
		return err
	}
	if u.ViewState.SelectedSKU == nil {
		return errors.New("expected a selected SKU, got none")
	}
	if int(u.ViewState.SelectedSKU.ID) != id {
		return fmt.Errorf("expected SKU %d, got %d", id, u.ViewState.SelectedSKU.ID)
	}
	return nil
}

func (c *pdpTestContext) noSKUIsSelected() error {
	u, err := c.lastUpdate()
	if err != nil {
		return err
	}
	if u.ViewState.SelectedSKU != nil {
		return fmt.Errorf("expected no SKU, got %d", u.ViewState.SelectedSKU.ID)
	}
	return nil
}

func (c *pdpTestContext) theAmountIs(amount string) error {
	u, err := c.lastUpdate()
	if err != nil {
		return err
	}
	if u.ViewState.AmountToAddToBag != amount {
		return fmt.Errorf("expected amount %q, got %q", amount, u.ViewState.AmountToAddToBag)
	}
	return nil
}

func (c *pdpTestContext) theButtonReads(title string) error {
	u, err := c.lastUpdate()
	if err != nil {
		return err
	}
	if u.ViewState.AddToBagTitle != title {
		return fmt.Errorf("expected button %q, got %q", title, u.ViewState.AddToBagTitle)
	}
	return nil
}

func (c *pdpTestContext) theLastErrorIs(kind string) error {
	for i := len(c.commands) - 1; i >= 0; i-- {
		showErr, ok := c.commands[i].(command.ShowError)
		if !ok {
			continue
		}
		var pdpErr *logic.Error
		if !errors.As(showErr.Err, &pdpErr) {
			return fmt.Errorf("expected a page error, got %v", showErr.Err)
		}
		if pdpErr.Kind.String() != kind {
			return fmt.Errorf("expected %s, got %s", kind, pdpErr.Kind)
		}
		return nil
	}
	return errors.New("no error shown")
}

func (c *pdpTestContext) theBagServiceWasNotCalled() error {
	if len(c.bagRequests) != 0 {
		return fmt.Errorf("expected no bag calls, got %d", len(c.bagRequests))
	}
	return nil
}

func (c *pdpTestContext) theBagServiceWasAskedFor(quantity, skuID int) error {
	req, err := c.lastBagRequest()
	if err != nil {
		return err
	}
	if int(req.skuID) != skuID || req.quantity != quantity {
		return fmt.Errorf("expected %d of SKU %d, got %d of SKU %d", quantity, skuID, req.quantity, req.skuID)
	}
	return nil
}

func (c *pdpTestContext) aResetIsScheduledAfter(delay string) error {
	want, err := time.ParseDuration(delay)
	if err != nil {
		return err
	}
	delays := c.sched.Delays()
	if len(delays) != 1 || delays[0] != want {
		return fmt.Errorf("expected one reset after %s, got %v", want, delays)
	}
	return nil
}

func (c *pdpTestContext) noResetIsScheduled() error {
	if delays := c.sched.Delays(); len(delays) != 0 {
		return fmt.Errorf("expected no reset, got %v", delays)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pdpTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a product "([^"]*)" with SKUs:$`, tc.aProductWithSKUs)
	ctx.Step(`^the page is configured$`, tc.thePageIsConfigured)
	ctx.Step(`^I have seen every command$`, tc.iHaveSeenEveryCommand)

	// When steps
	ctx.Step(`^I select colour "([^"]*)"$`, tc.iSelectColour)
	ctx.Step(`^I select size "([^"]*)"$`, tc.iSelectSize)
	ctx.Step(`^I increase the amount$`, tc.iIncreaseTheAmount)
	ctx.Step(`^I decrease the amount$`, tc.iDecreaseTheAmount)
	ctx.Step(`^I set the amount to (-?\d+)$`, tc.iSetTheAmountTo)
	ctx.Step(`^I tap add to bag$`, tc.iTapAddToBag)
	ctx.Step(`^I request shipping info$`, tc.iRequestShippingInfo)
	ctx.Step(`^I close the page$`, tc.iClose)
	ctx.Step(`^the bag service succeeds$`, tc.theBagServiceSucceeds)
	ctx.Step(`^the bag service fails$`, tc.theBagServiceFails)
	ctx.Step(`^the shipping service answers with "([^"]*)" costing "([^"]*)"$`, tc.theShippingServiceAnswers)
	ctx.Step(`^the shipping service fails$`, tc.theShippingServiceFails)
	ctx.Step(`^the reset delay elapses$`, tc.theResetDelayElapses)

	// Then steps
	ctx.Step(`^the page received commands "([^"]*)"$`, tc.thePageReceivedCommands)
	ctx.Step(`^the selected SKU is (\d+)$`, tc.theSelectedSKUIs)
	ctx.Step(`^no SKU is selected$`, tc.noSKUIsSelected)
	ctx.Step(`^the amount is "([^"]*)"$`, tc.theAmountIs)
	ctx.Step(`^the button reads "([^"]*)"$`, tc.theButtonReads)
	ctx.Step(`^the last error is "([^"]*)"$`, tc.theLastErrorIs)
	ctx.Step(`^the bag service was not called$`, tc.theBagServiceWasNotCalled)
	ctx.Step(`^the bag service was asked for (\d+) of SKU (\d+)$`, tc.theBagServiceWasAskedFor)
	ctx.Step(`^a reset is scheduled after "([^"]*)"$`, tc.aResetIsScheduledAfter)
	ctx.Step(`^no reset is scheduled$`, tc.noResetIsScheduled)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"pdp.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
