/*
Package jobatlas builds jobs-to-be-done industry taxonomies with a language
model. Starting from a single industry name it expands a tree of sectors,
subsectors, end-user groups, end users and the jobs those users are trying
to get done, then drills each job into contexts, job maps, desired outcomes
and the rest of the analysis pipeline.

Every node is persisted as soon as it is created and carries a completion
flag, so a run can be interrupted at any point and resumed without repeating
finished work or duplicating children.

	engine, err := jobatlas.New(
		jobatlas.WithGenerator(openai.New(apiKey)),
		jobatlas.WithStore(file.NewStore("trees")),
	)
	if err != nil {
		log.Fatal(err)
	}
	tree, err := engine.BuildTaxonomy(ctx, "Renewable Energy")
*/
package jobatlas
