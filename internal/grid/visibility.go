package grid

// IsVisible reports whether the checkbox column takes part in the render
// pass described by ctx.
func IsVisible(col *CheckboxColumn, ctx RenderContext) (bool, error) {
	return col.Visibility.IsVisible(ctx)
}

// IsVisible resolves the visibility flags for one render context.
//
// The live grid honours only Hidden. Exports honour only HiddenFromExport.
// A malformed export setting or an unknown export format fails closed:
// false is returned along with the *ConfigurationError.
func (v Visibility) IsVisible(ctx RenderContext) (bool, error) {
	if !ctx.Export {
		return !v.Hidden, nil
	}

	if err := v.HiddenFromExport.Validate(); err != nil {
		return false, err
	}
	if !ctx.Format.Valid() {
		return false, &ConfigurationError{
			Field:   "format",
			Value:   string(ctx.Format),
			Message: "unrecognized export format",
		}
	}

	return !v.HiddenFromExport.Hides(ctx.Format), nil
}

// VisibilityClasses returns the marker classes for cells of a column:
// kv-grid-hide when hidden on screen, skip-export when hidden from every
// export, otherwise skip-export-<format> per listed format.
func (v Visibility) VisibilityClasses() []string {
	var classes []string
	if v.Hidden {
		classes = append(classes, ClassGridHide)
	}
	if v.HiddenFromExport.All {
		return append(classes, ClassSkipExport)
	}
	for _, f := range v.HiddenFromExport.Formats {
		classes = append(classes, ClassSkipExport+"-"+string(f))
	}
	return classes
}
