package reminder

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mvilar/controlcar/internal/models"
)

const (
	bodySeparator        = " • "
	fallbackVehicleLabel = "Veículo"
	dateLayout           = "02/01/2006"

	maintenanceRoute = "/maintenances"
	documentRoute    = "/documents"
	fineRoute        = "/fines"
)

// Composer builds user-facing notification payloads from evaluated records.
// Monetary values are formatted with the configured locale and currency so
// grouping and symbol come out right for the user.
type Composer struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewComposer creates a composer for the given BCP 47 locale and ISO 4217
// currency code. Unparseable values fall back to pt-BR / BRL, the app's
// original audience.
func NewComposer(locale, currencyCode string) *Composer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.BRL
	}
	return &Composer{
		printer: message.NewPrinter(tag),
		unit:    unit,
	}
}

// FormatCurrency renders a monetary value with locale grouping and symbol.
func (c *Composer) FormatCurrency(value float64) string {
	return c.printer.Sprint(currency.Symbol(c.unit.Amount(value)))
}

func vehicleLabel(v *models.Vehicle) string {
	if v == nil {
		return fallbackVehicleLabel
	}
	return v.Label()
}

// Maintenance composes the candidate for a due or overdue maintenance
// reminder. Overdue bodies skip the softening lead-in.
func (c *Composer) Maintenance(r *models.Reminder, st DueStatus, v *models.Vehicle) models.Candidate {
	title := "Manutenção chegando"
	if st.Overdue {
		title = "Manutenção atrasada"
	}
	var parts []string
	if !st.Overdue {
		parts = append(parts, "A manutenção do seu veículo está chegando")
	}
	parts = append(parts, vehicleLabel(v)+": "+r.Description)
	if r.DueDate != nil {
		parts = append(parts, "Data: "+r.DueDate.Format(dateLayout))
	}
	if r.DueMileage != nil {
		parts = append(parts, fmt.Sprintf("Km: %d", *r.DueMileage))
	}
	return models.Candidate{
		Category:    models.CategoryMaintenance,
		Title:       title,
		Body:        strings.Join(parts, bodySeparator),
		TargetRoute: maintenanceRoute,
		Overdue:     st.Overdue,
	}
}

// Document composes the candidate for an expiring or expired document.
func (c *Composer) Document(d *models.Document, st DueStatus, v *models.Vehicle) models.Candidate {
	title := "Documento a vencer"
	if st.Overdue {
		title = "Documento vencido"
	}
	var parts []string
	if !st.Overdue {
		parts = append(parts, "Um documento do seu veículo está próximo do vencimento")
	}
	parts = append(parts, vehicleLabel(v)+": "+d.DisplayName())
	if d.DueDate != nil {
		parts = append(parts, "Data: "+d.DueDate.Format(dateLayout))
	}
	return models.Candidate{
		Category:    models.CategoryDocument,
		Title:       title,
		Body:        strings.Join(parts, bodySeparator),
		TargetRoute: documentRoute,
		Overdue:     st.Overdue,
	}
}

// Fine composes the candidate for a fine approaching or past its payment
// date, appending value and point fragments when present.
func (c *Composer) Fine(f *models.Fine, st DueStatus, v *models.Vehicle) models.Candidate {
	title := "Multa a vencer"
	if st.Overdue {
		title = "Multa vencida"
	}
	var parts []string
	if !st.Overdue {
		parts = append(parts, "Uma multa do seu veículo está próxima do vencimento")
	}
	parts = append(parts, vehicleLabel(v)+": "+f.DisplayName())
	if f.DueDate != nil {
		parts = append(parts, "Data: "+f.DueDate.Format(dateLayout))
	}
	if f.Value != nil {
		parts = append(parts, "Valor: "+c.FormatCurrency(*f.Value))
	}
	if f.Points != nil {
		parts = append(parts, fmt.Sprintf("Pontos: %d", *f.Points))
	}
	return models.Candidate{
		Category:    models.CategoryFine,
		Title:       title,
		Body:        strings.Join(parts, bodySeparator),
		TargetRoute: fineRoute,
		Overdue:     st.Overdue,
	}
}
