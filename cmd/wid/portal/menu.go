package portal

import (
	"slices"

	"github.com/opst/writerid/cmd/wid/actions"
)

const disabledSuffix = " (disabled)"

// act asks an action of the menu.
//
// Disabled actions are listed too. Choosing one shows why it is not allowed,
// and ok is false.
func (p *Portal) act(menu actions.Menu) (action actions.Action, ok bool, err error) {
	labels := make([]string, 0, len(menu.Items)+1)
	for _, it := range menu.Items {
		label := it.Label
		if !it.Enabled {
			label += disabledSuffix
		}
		labels = append(labels, label)
	}
	labels = append(labels, choiceBack)

	title := "Actions"
	if menu.Subject != "" {
		title = "Actions of " + menu.Subject
	}
	choice, err := p.prompter.Select(title, labels, "")
	if err != nil {
		return "", false, err
	}
	i := slices.Index(labels, choice)
	if i < 0 || len(menu.Items) <= i {
		return "", false, nil
	}
	it := menu.Items[i]
	if err := menu.Check(it.Action); err != nil {
		p.out.Warning("%s", err)
		return "", false, nil
	}
	return it.Action, true, nil
}
