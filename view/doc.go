// Package view renders the console pages of the five resources and runs
// their actions.
//
// A [Page] is a pure function of the cache entries it reads and its local
// form state: Render never fetches. Load starts the page's reads through the
// query store and waits for them, and actions dispatch mutations. Pages move
// the [Navigator] only after a mutation settles successfully; a failed
// mutation leaves the form as it was, reports the failure through the
// [Prompter] and stays on the page.
//
// Routes:
//
//	/ and /home                          section menu
//	/product, /recipes, /posts, ...      list with create
//	/<section>/:id                       detail with delete
//	/<section>/edit/:id                  edit form
//	anything else                        not found page
package view
