package sqlinline

const QInsertColoringJob = `--sql ee26217b-962c-42fd-9333-7e56abc897bb
insert into coloring_jobs (id, ulos_type, motif_id, color_codes, status, progress, created_at, updated_at, expires_at)
values ($1::uuid, $2::text, $3::text, $4::text[], 'Pending', 0, now(), now(), now() + $5::int * interval '1 second')
returning created_at, updated_at, expires_at;
`

const QWorkerClaimJob = `--sql 4f55a9b7-4e9f-4e45-a3b3-5a532d21d9db
with next_job as (
    select id
    from coloring_jobs
    where (status = 'Pending'
           or (status = 'Running' and updated_at < now() - $1::int * interval '1 second'))
      and expires_at > now()
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update coloring_jobs
    set status = 'Running', updated_at = now()
    where id in (select id from next_job)
    returning id, ulos_type, motif_id, color_codes, status, progress, created_at, updated_at, expires_at
)
select * from updated;
`

const QUpdateJobProgress = `--sql aff8ec09-d563-4976-bc21-73e883681823
update coloring_jobs
set progress = greatest(progress, $2::int),
    updated_at = now(),
    expires_at = now() + $3::int * interval '1 second'
where id = $1::uuid
  and status not in ('Completed', 'Failed');
`

const QCompleteJob = `--sql 17a5d4fe-aaad-435f-8bda-3087af40a22b
update coloring_jobs
set status = 'Completed',
    progress = 100,
    result_json = $2::jsonb,
    error_message = null,
    updated_at = now(),
    expires_at = now() + $3::int * interval '1 second'
where id = $1::uuid;
`

const QFailJob = `--sql 0aeb5903-19a4-4455-bfb0-8c2b1785e7cf
update coloring_jobs
set status = 'Failed',
    progress = 100,
    error_message = $2::text,
    updated_at = now(),
    expires_at = now() + $3::int * interval '1 second'
where id = $1::uuid;
`

const QSelectJobByID = `--sql 894365f9-7ce8-4840-980a-26a269722130
select id, ulos_type, motif_id, color_codes, status, progress, result_json, coalesce(error_message, ''), created_at, updated_at, expires_at
from coloring_jobs
where id = $1::uuid
  and expires_at > now();
`

const QDeleteExpiredJobs = `--sql 7dff6829-616a-4276-8204-cb8b02f02b07
delete from coloring_jobs
where expires_at <= $1::timestamptz;
`
