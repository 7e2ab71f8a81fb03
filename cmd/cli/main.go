package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"estimapp/internal/client/api"
	"estimapp/internal/client/auth"
	clientconfig "estimapp/internal/client/config"
	"estimapp/internal/client/estimation"
	"estimapp/internal/client/flow"
	"estimapp/internal/client/session"
	"estimapp/internal/domain"
)

// app agrupa las piezas del cliente de terminal.
type app struct {
	session    *session.Manager
	auth       *auth.Client
	estimation *estimation.Client
	reader     *bufio.Reader
}

func main() {
	_ = godotenv.Load()

	cfg, err := clientconfig.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	sess := session.NewManager(session.NewFileStore(cfg.SessionFile))
	if err := sess.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "session:", err)
	}

	apiClient := api.NewClient(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second, sess)
	a := &app{
		session:    sess,
		auth:       auth.NewClient(apiClient, sess),
		estimation: estimation.NewClient(apiClient),
		reader:     bufio.NewReader(os.Stdin),
	}

	if len(os.Args) < 2 {
		a.usage()
		os.Exit(2)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "login":
		a.login(ctx)
	case "signup":
		a.signup(ctx)
	case "logout":
		if err := a.auth.Logout(); err != nil {
			fmt.Fprintln(os.Stderr, "logout:", err)
			os.Exit(1)
		}
		fmt.Println("Session cleared.")
	case "whoami":
		a.whoami()
	case "projects":
		a.projects(ctx)
	case "dashboard":
		a.dashboard(ctx)
	default:
		a.usage()
		os.Exit(2)
	}
}

func (a *app) usage() {
	fmt.Println("usage: estimapp <login|signup|logout|whoami|projects|dashboard>")
}

func (a *app) prompt(label string) string {
	fmt.Print(label + ": ")
	line, _ := a.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) promptPassword(label string) string {
	fmt.Print(label + ": ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(pw)
}

func (a *app) login(ctx context.Context) {
	email := a.prompt("Email")
	password := a.promptPassword("Password")

	err := a.auth.Login(ctx, email, password)
	if errors.Is(err, auth.ErrNeedsVerification) {
		fmt.Println("Your email is not verified yet; requesting a new code.")
		if err := a.auth.SendOTP(ctx, email); err != nil {
			fmt.Fprintln(os.Stderr, "send otp:", err)
			os.Exit(1)
		}
		if !a.verifyOTP(ctx, email, false) {
			os.Exit(1)
		}
		fmt.Println("Email verified, you are logged in.")
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "login:", err)
		os.Exit(1)
	}
	fmt.Println("Logged in.")
}

// verifyOTP corre la maquina de codigo contra las teclas ingresadas. El
// flujo de registro usa auto-submit; el de login pide confirmacion.
func (a *app) verifyOTP(ctx context.Context, email string, autoSubmit bool) bool {
	machine := flow.NewOTPMachine(autoSubmit)
	machine.EnterOTP()

	for !machine.Complete() {
		line := a.prompt(fmt.Sprintf("Code digit %d", machine.FocusIndex()+1))
		if line == "" {
			machine.Backspace(machine.FocusIndex())
			continue
		}
		for _, r := range line {
			machine.SetDigit(machine.FocusIndex(), byte(r))
		}
	}
	if !autoSubmit {
		if a.prompt("Submit code? [y/N]") != "y" {
			return false
		}
	}

	if err := a.auth.VerifyOTP(ctx, email, machine.Code()); err != nil {
		fmt.Fprintln(os.Stderr, "verify:", err)
		return false
	}
	machine.Authenticated()
	return true
}

func (a *app) signup(ctx context.Context) {
	wizard := flow.NewSignupWizard(signupStarter{a.auth})

	role := strings.ToUpper(a.prompt("Role (ESTIMATOR/VIEWER)"))
	wizard.SetRole(domain.Role(role))
	if !wizard.Next(ctx) {
		fmt.Fprintln(os.Stderr, "role:", wizard.FieldError("role"))
		os.Exit(1)
	}

	for {
		first := a.prompt("First name")
		last := a.prompt("Last name")
		email := a.prompt("Email")
		phone := a.prompt("Phone (optional)")
		wizard.SetInfo(first, last, email, phone)
		if wizard.Next(ctx) {
			break
		}
		for _, field := range []string{"firstName", "lastName", "email", "phone", "form"} {
			if msg := wizard.FieldError(field); msg != "" {
				fmt.Fprintln(os.Stderr, field+":", msg)
			}
		}
	}

	fmt.Println("A verification code was sent to your email.")
	if !a.verifyOTP(ctx, wizard.Draft().Email, true) {
		os.Exit(1)
	}
	wizard.Verified()

	for {
		password := a.promptPassword("Password")
		confirm := a.promptPassword("Confirm password")
		fmt.Println("Strength:", flow.PasswordStrengthOf(password))
		wizard.SetPassword(password, confirm)
		if wizard.Next(ctx) {
			break
		}
		for _, field := range []string{"password", "confirmPassword"} {
			if msg := wizard.FieldError(field); msg != "" {
				fmt.Fprintln(os.Stderr, field+":", msg)
			}
		}
	}

	if err := a.auth.CompleteSignup(ctx, wizard.Draft().Email, wizard.Draft().Password); err != nil {
		fmt.Fprintln(os.Stderr, "complete signup:", err)
		os.Exit(1)
	}
	wizard.Reset()
	fmt.Println("Account created, you are logged in.")
}

func (a *app) whoami() {
	user, ok := a.session.User()
	if !ok {
		fmt.Println("Not logged in.")
		return
	}
	fmt.Printf("%s %s <%s> (%s)\n", user.FirstName, user.LastName, user.Email, user.Role)
}

func (a *app) projects(ctx context.Context) {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "login first")
		os.Exit(1)
	}
	projects, err := a.estimation.Projects.My(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "projects:", err)
		os.Exit(1)
	}
	if len(projects) == 0 {
		fmt.Println("No projects yet.")
		return
	}
	for _, p := range projects {
		fmt.Printf("%-24s %-20s %12.2f %s (%d%%)\n", p.Name, p.Client, p.Amount, p.Status, p.Completion)
	}
}

func (a *app) dashboard(ctx context.Context) {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(os.Stderr, "login first")
		os.Exit(1)
	}
	stats, err := a.estimation.Dashboard.Stats(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
	fmt.Printf("Projects: %d  Estimations: %d  Team: %d  Reports: %d\n",
		stats.TotalProjects, stats.TotalEstimations, stats.TeamMembers, stats.Reports)
}

// signupStarter adapta el cliente de auth a la interfaz del asistente.
type signupStarter struct {
	auth *auth.Client
}

func (s signupStarter) StartSignup(ctx context.Context, draft domain.SignupDraft) error {
	return s.auth.StartSignup(ctx, draft)
}
