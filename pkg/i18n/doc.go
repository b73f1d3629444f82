// Package i18n translates page labels.
//
// Catalogs are YAML files named after their locale ("en.yaml",
// "zh-CN.yaml"). Nested mappings are flattened to dotted keys, so
//
//	PageName:
//	  user: Users
//
// defines the key "PageName.user". The embedded catalogs cover the routes
// every router registers; applications add their own with LoadDir or
// LoadFS. Lookups go through golang.org/x/text/message; a key no catalog
// defines translates to itself.
package i18n
