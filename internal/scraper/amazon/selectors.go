package amazon

import "go-shift-hunter/internal/browser"

// Results page.
var (
	noJobsMarker   = browser.CSS("#jobNotFoundContainer")
	resultsHeading = browser.XPath("//h1[contains(text(),'Total')]")
	jobCard        = browser.CSS("div[data-test-id='JobCard']")
	cardTitle      = browser.CSS("div.jobDetailText strong")
	cardDetail     = browser.CSS("div.jobDetailText")
	cardShiftText  = browser.XPath(".//div[contains(text(),'shift available') or contains(text(),'shifts available')]")
)

// Job detail view and application flow.
var (
	noShiftMarker     = browser.XPath("//div[contains(text(),'No work shift found')]")
	scheduleDropdown  = browser.CSS("div.jobDetailScheduleDropdown")
	scheduleOption    = browser.CSS("div[data-test-id='schedulePanel'] div[data-test-component='StencilReactCard'][role='button']")
	applyButton       = browser.CSS("button[data-test-id='jobDetailApplyButtonDesktop']")
	nextButton        = browser.XPath("//button[.//div[text()='Next']]")
	createApplication = browser.XPath("//button[.//div[normalize-space(text())='Create Application']]")
)

// Pre-loop dialogs.
var (
	consentButton      = browser.XPath("//button[@data-test-id='consentBtn']")
	consentModalButton = browser.XPath("//div[@data-test-id='consentModal']/div/button")
	closeGuidedSearch  = browser.XPath("//div[@aria-label='Close guided search']")
)
