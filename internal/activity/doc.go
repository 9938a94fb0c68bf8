// Package activity derives what the caregiver surfaces show from a plan and its feedback:
// category filters, the played/not-started listing with its KPIs, and the weekly summary.
//
// Everything here is pure; callers load the plan and feedback from the session store.
package activity
