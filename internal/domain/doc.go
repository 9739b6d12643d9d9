// Package domain contains the core business entities of the care companion:
// patients and caretakers, the records a patient owns (medications, schedule
// items, walking routes, family photos and game definitions) and the
// validation rules that apply to them. It is independent of any storage or
// delivery mechanism.
package domain
