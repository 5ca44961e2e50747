package ui

import (
	"fmt"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"github.com/devicelab-dev/todo-e2e/pkg/locators"
)

// Element is a lazy handle, re-resolved on every attempt.
type Element struct {
	b   *Browser
	loc locators.Locator
}

// Locator returns the locator of e.
func (e *Element) Locator() locators.Locator {
	return e.loc
}

// first returns the id of the first match, or "" when nothing matches.
func (e *Element) first() (string, error) {
	ids, err := e.b.Session.FindElements(e.loc.Strategy, e.loc.Value)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

// visible returns the id of the first match if it is displayed.
func (e *Element) visible() (string, error) {
	id, err := e.first()
	if err != nil || id == "" {
		return "", err
	}
	shown, err := e.b.Session.IsElementDisplayed(id)
	if err != nil || !shown {
		return "", err
	}
	return id, nil
}

// ShouldBeVisible waits until the element is present and displayed.
func (e *Element) ShouldBeVisible() error {
	return e.b.waitUntil(core.ErrElementNotVisible, fmt.Sprintf("%s not visible", e.loc), func() (bool, error) {
		id, err := e.visible()
		return id != "", err
	})
}

// ShouldBeHidden waits until the element is absent or not displayed.
func (e *Element) ShouldBeHidden() error {
	return e.b.waitUntil(core.ErrElementStillVisible, fmt.Sprintf("%s still visible", e.loc), func() (bool, error) {
		id, err := e.first()
		if err != nil {
			return false, err
		}
		if id == "" {
			return true, nil
		}
		shown, err := e.b.Session.IsElementDisplayed(id)
		if err != nil {
			// Gone between lookup and check.
			return true, nil
		}
		return !shown, nil
	})
}

// Click waits for the element to be visible, then clicks it.
func (e *Element) Click() error {
	return e.act(fmt.Sprintf("click %s", e.loc), func(id string) error {
		return e.b.Session.ClickElement(id)
	})
}

// Type waits for the element to be visible, then appends text to it.
func (e *Element) Type(text string) error {
	return e.act(fmt.Sprintf("type into %s", e.loc), func(id string) error {
		return e.b.Session.SendKeysToElement(id, text)
	})
}

// SetValue clears the element, then types text.
func (e *Element) SetValue(text string) error {
	return e.act(fmt.Sprintf("set value of %s", e.loc), func(id string) error {
		if err := e.b.Session.ClearElement(id); err != nil {
			return err
		}
		return e.b.Session.SendKeysToElement(id, text)
	})
}

// Text waits for the element to be visible and returns its text.
func (e *Element) Text() (string, error) {
	var text string
	err := e.act(fmt.Sprintf("read text of %s", e.loc), func(id string) error {
		t, err := e.b.Session.GetElementText(id)
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	return text, err
}

// act retries fn against the visible element until it succeeds.
func (e *Element) act(desc string, fn func(id string) error) error {
	return e.b.waitUntil(core.ErrElementNotFound, "could not "+desc, func() (bool, error) {
		id, err := e.visible()
		if err != nil || id == "" {
			return false, err
		}
		if err := fn(id); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Collection is a lazy handle to all elements matching a locator.
type Collection struct {
	b   *Browser
	loc locators.Locator
}

// Count returns the current number of matches without waiting.
func (c *Collection) Count() (int, error) {
	ids, err := c.b.Session.FindElements(c.loc.Strategy, c.loc.Value)
	return len(ids), err
}

// ShouldHaveSize waits until exactly n elements match.
func (c *Collection) ShouldHaveSize(n int) error {
	last := -1
	err := c.b.waitUntil(core.ErrSizeMismatch, fmt.Sprintf("%s: expected %d elements", c.loc, n), func() (bool, error) {
		got, err := c.Count()
		if err != nil {
			return false, err
		}
		last = got
		return got == n, nil
	})
	if err != nil && last >= 0 {
		if ee, ok := err.(*core.ExecutionError); ok {
			return ee.WithDetails(map[string]interface{}{"expected": n, "actual": last})
		}
	}
	return err
}
