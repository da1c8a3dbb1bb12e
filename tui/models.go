package tui

import (
	"context"

	"github.com/kiltia/analyst"
	"github.com/kiltia/analyst/config"
	"github.com/kiltia/analyst/extract"
	"github.com/kiltia/analyst/planner"
)

var (
	mainModelOptions = []string{
		"Report analyst",
		"Capacity planner",
		"Configuration",
	}
)

const welcomeMessage = "Welcome to the AI Report File Analyst! Please load a PDF, TXT, or CSV file below to begin chatting with your data."

// State is shared by every screen of the application.
type State struct {
	Ctx     context.Context
	Config  *config.Config
	Session *analyst.Session
	Planner *planner.Planner
}

type fileLoadedMsg struct {
	doc extract.Document
	err error
}

type answerMsg struct {
	question string
	answer   string
	err      error
}

type ticketsFetchedMsg struct {
	err error
}
