// Package httpapp provides the HTTP server for hnserve.
//
//	@title						hnserve API
//	@version					1.0
//	@description				A read-only JSON facade over the Hacker News API.
//	@description
//	@description				Nested content (comment trees, user submissions) is resolved
//	@description				server-side and returned as fully materialized JSON. HTML text
//	@description				fields are converted to plain markdown-like text, and ranked
//	@description				feed listings fall back to the id-list API when the website
//	@description				cannot be scraped.
//	@description
//	@description				All endpoints are GET and unauthenticated. Absent optional
//	@description				fields are omitted from responses rather than sent as null.
//
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@tag.name					Items
//	@tag.description			Stories, comments, jobs and polls. Shallow views carry raw child ids; the deep view resolves the whole comment tree.
//
//	@tag.name					Users
//	@tag.description			User profiles, optionally with submissions resolved to shallow items.
//
//	@tag.name					Feeds
//	@tag.description			Story listings: upstream id order, or site-ranked order scraped from the website.
//
//	@tag.name					Meta
//	@tag.description			Liveness and service description.
package httpapp
