// Package generation turns profile fields into AI recommendations.
//
// Each operation builds a Spanish prompt asking the model for a strict JSON object, decodes the
// reply (stripping Markdown fences, extracting the outermost object, repairing near-JSON), and
// substitutes a fixed sample of the same shape when the provider fails or the reply cannot be
// decoded. Results carry a [models.Source] so callers can tell live data from samples.
//
// [Generator.Recommendations] is the exception: it returns free text and reports errors, since
// there is no sample text worth showing in its place.
package generation
