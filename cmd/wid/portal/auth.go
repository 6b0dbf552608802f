package portal

import (
	"context"

	"github.com/opst/writerid/cmd/wid/forms"
)

func (p *Portal) loginPage(ctx context.Context, nav Navigation) (Navigation, error) {
	const signIn = "Sign in"
	choice, err := p.prompter.Select(
		Login.Title(), []string{signIn, goTo(Register), choiceQuit}, signIn,
	)
	if err != nil {
		return nav, err
	}
	switch choice {
	case choiceQuit:
		return nav, errQuit
	case goTo(Register):
		return Navigation{To: Register}, nil
	}

	username, err := p.prompter.Input("Username", "", true)
	if err != nil {
		return nav, err
	}
	password, err := p.prompter.Password("Password")
	if err != nil {
		return nav, err
	}
	form := forms.Login{Username: username, Password: password}
	if err := form.Validate(); err != nil {
		p.invalid(err)
		return nav, nil
	}

	p.auth.ClearError()
	if err := p.auth.Login(ctx, form.Request()); err != nil {
		p.out.Error("%s", p.auth.Snapshot().Error)
		return nav, nil
	}
	st := p.auth.Snapshot()
	p.out.Success("signed in as %s", st.User.DisplayName())
	return Navigation{To: Dashboard}, nil
}

func (p *Portal) registerPage(ctx context.Context, nav Navigation) (Navigation, error) {
	const register = "Register"
	choice, err := p.prompter.Select(
		Register.Title(), []string{register, goTo(Login), choiceQuit}, register,
	)
	if err != nil {
		return nav, err
	}
	switch choice {
	case choiceQuit:
		return nav, errQuit
	case goTo(Login):
		return Navigation{To: Login}, nil
	}

	form := forms.Register{}
	for _, f := range []struct {
		message string
		value   *string
	}{
		{"First name", &form.FirstName},
		{"Last name", &form.LastName},
		{"Email", &form.Email},
	} {
		v, err := p.prompter.Input(f.message, "", true)
		if err != nil {
			return nav, err
		}
		*f.value = v
	}
	if form.Password, err = p.prompter.Password("Password"); err != nil {
		return nav, err
	}
	if form.ConfirmPassword, err = p.prompter.Password("Confirm password"); err != nil {
		return nav, err
	}
	if err := form.Validate(); err != nil {
		p.invalid(err)
		return nav, nil
	}

	p.auth.ClearError()
	if err := p.auth.Register(ctx, form.Request()); err != nil {
		p.out.Error("%s", p.auth.Snapshot().Error)
		return nav, nil
	}
	p.out.Success("account %s is registered. Please sign in", form.Request().Email)
	return Navigation{To: Login}, nil
}
