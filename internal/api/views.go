package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"kiosk-admin-console/internal/dialog"
	"kiosk-admin-console/internal/model"
	"kiosk-admin-console/internal/notification"
	"kiosk-admin-console/internal/query"
	"kiosk-admin-console/internal/resource"
	"kiosk-admin-console/internal/table"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// Views holds the parsed HTML templates. It also renders table fragments
// for live sessions.
type Views struct {
	tmpl *template.Template
}

func NewViews() (*Views, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Views{tmpl: tmpl}, nil
}

// Template is the set gin renders pages from.
func (v *Views) Template() *template.Template { return v.tmpl }

func (v *Views) RenderGrid(info resource.Info, g table.Grid, st *query.State) (string, error) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, "table", tableView{Info: info, Grid: g, Query: st.Encode()}); err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}
	return buf.String(), nil
}

// page is the data every full page shares.
type page struct {
	Title  string
	User   string
	Nav    []navItem
	Active string
	Toasts []notification.Toast
}

type navItem struct {
	Name  string
	Title string
	URL   string
}

type tableView struct {
	Info  resource.Info
	Grid  table.Grid
	Query string
}

type filterView struct {
	Column  string
	Label   string
	Options model.Enum
	Value   string
}

type listPage struct {
	page
	Info      resource.Info
	Table     tableView
	Search    string
	Status    string
	Filters   []filterView
	Query     string
	WSURL     string
	ExportURL string
}

type formPage struct {
	page
	Info resource.Info
	Form resource.FormView
}

type detailPage struct {
	page
	Info   resource.Info
	Detail resource.Detail
}

type loginPage struct {
	page
	Next  string
	Email string
	Error string
}

type stepView struct {
	Index      int
	Step       dialog.StepForm
	Callback   string
	Functions  []model.DeviceFunction
	Parameters []model.FunctionParameter
	Errors     map[string]string
}

type builderPage struct {
	page
	Info      resource.Info
	Form      dialog.WorkflowForm
	Payload   string
	Product   string
	Steps     []stepView
	Types     model.Enum
	Models    []model.DeviceModel
	Callbacks []model.Workflow
	Versions  []model.KioskVersion
	Products  []model.Product
	Errors    dialog.FieldErrors
	Error     string
}
