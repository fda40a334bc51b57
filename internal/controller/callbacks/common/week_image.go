package common

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/omarhammouda0/session-smart-buddy/internal/controller/callbacks/common/formatting"
	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/omarhammouda0/session-smart-buddy/internal/service"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 8
	minSessionHeight = 8.0
	borderRadius     = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPadding      = 1
	defaultMinHour   = 8
	defaultMaxHour   = 22
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	sessionFontSize    = 15.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 60}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	scheduledColor   = color.RGBA{120, 170, 230, 230}
	completedColor   = color.RGBA{133, 193, 85, 220}
	inactiveColor    = color.RGBA{190, 190, 190, 160}
	conflictColor    = color.RGBA{235, 87, 87, 255}
	closeColor       = color.RGBA{242, 201, 76, 255}
	sessionTextColor = color.RGBA{20, 24, 28, 230}
	shadowColor      = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont загружает шрифт Go (с кириллицей) или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		data := goregular.TTF
		if style == FontStyleBold {
			data = gobold.TTF
		}
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			parsed = nil
		}
		cachedFonts[style] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует неделю занятий репетитора. Занятия с пересечением
// обводятся красным, слишком близкие жёлтым.
func GenerateWeekImage(week []service.WeekDay, now time.Time) ([]byte, error) {
	if len(week) == 0 {
		return nil, fmt.Errorf("empty week")
	}

	today := now.Format(model.DateLayout)
	hours := calculateHourRange(week)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	for dayIndex, day := range week {
		if dayIndex >= totalDaysInWeek {
			break
		}
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)
		isToday := day.Date == today

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, day.Date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, ds := range day.Sessions {
			drawSession(dc, ds, x, y, dayWidth, hours, cellHeight)
		}

		if isToday {
			drawCurrentTimeLine(dc, now, hours, cellHeight, x, dayWidth)
		}
	}

	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// calculateHourRange определяет диапазон часов по занятиям недели
func calculateHourRange(week []service.WeekDay) hourRange {
	minHour := 24
	maxHour := 0

	for _, day := range week {
		for _, ds := range day.Sessions {
			startH := ds.Interval.Start / 60
			endH := (ds.Interval.End + 59) / 60
			if startH < minHour {
				minHour = startH
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPadding
	endHour := maxHour + hourPadding
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 {
		endHour = 24
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с названием месяца
func drawHeader(dc *gg.Context, week []service.WeekDay) {
	first, _ := time.Parse(model.DateLayout, week[0].Date)
	last, _ := time.Parse(model.DateLayout, week[len(week)-1].Date)

	title := formatting.GetMonthName(first.Month())
	if first.Month() != last.Month() {
		title += " - " + formatting.GetMonthName(last.Month())
	}

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleDefault)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := schedule.FormatClock((hours.start + hIdx) * 60)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if isToday {
		dc.SetColor(todayBgColor)
	} else if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date string, x, y float64, dayWidth int) {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return
	}

	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(t.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(formatting.GetWeekdayShortName(int(t.Weekday())), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSession рисует одно занятие
func drawSession(dc *gg.Context, ds schedule.DaySession, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(ds.Interval.Start) / 60.0
	endHour := float64(ds.Interval.End) / 60.0

	top := y + (startHour-float64(hours.start))*cellHeight
	height := (endHour - startHour) * cellHeight
	if height < minSessionHeight {
		height = minSessionHeight
	}

	fill := getSessionColor(ds.Session.Status)
	width := float64(dayWidth) - float64(dayPaddingX*2)
	left := x + float64(dayPaddingX)

	// Тень
	dc.SetColor(shadowColor)
	dc.DrawRoundedRectangle(left+shadowOffset, top+2+shadowOffset, width, height-4, borderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(left, top+2, width, height-4, borderRadius)
	dc.Fill()

	// Рамка по серьёзности конфликта
	border, lineWidth := darkenColor(fill, 0.8), 1.0
	if ds.HasConflict {
		lineWidth = 3.0
		border = closeColor
		if ds.Severity == schedule.SeverityError {
			border = conflictColor
		}
	}
	dc.SetColor(border)
	dc.SetLineWidth(lineWidth)
	dc.DrawRoundedRectangle(left, top+2, width, height-4, borderRadius)
	dc.Stroke()

	loadFont(dc, sessionFontSize, FontStyleBold)
	dc.SetColor(sessionTextColor)
	txtX := left + 8
	txtY := top + 18
	dc.DrawStringAnchored(schedule.FormatClock(ds.Interval.Start), txtX, txtY, 0, 0)

	if height > 40 {
		name := []rune(ds.Student.Name)
		if len(name) > 14 {
			name = append(name[:13], '…')
		}
		loadFont(dc, sessionFontSize-2, FontStyleDefault)
		dc.DrawStringAnchored(string(name), txtX, txtY+16, 0, 0)
	}
}

// getSessionColor возвращает цвет занятия по его статусу
func getSessionColor(status model.SessionStatus) color.RGBA {
	switch status {
	case model.SessionStatusScheduled:
		return scheduledColor
	case model.SessionStatusCompleted:
		return completedColor
	default:
		return inactiveColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени в колонке сегодняшнего дня
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight, x float64, dayWidth int) {
	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	lineY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(x, lineY, x+float64(dayWidth), lineY)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 170.0

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Запланировано", scheduledColor},
		{"Проведено", completedColor},
		{"Отмена/каникулы", inactiveColor},
		{"Пересечение", conflictColor},
		{"Слишком близко", closeColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, FontStyleDefault)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
